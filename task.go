package main

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"sync"
	"sync/atomic"
	"time"

	"github.com/teris-io/shortid"
	pb "gopkg.in/cheggaaa/pb.v1"
)

func InitTask() {
	start := time.Now()

	grid, err := NewGrid(conf.Map.SizeKm, conf.Map.TileSizePx, conf.Map.MetersPerTile)
	if err != nil {
		log.Fatalf("grid params error, details: %s", err)
	}
	if grid.TileSizePx%2 != 0 {
		// 奇数尺寸合成时半边取整, 瓦片中部留 1px 接缝
		log.Warnf("tile size %dpx is odd, zoom tiles will carry a 1px seam", grid.TileSizePx)
	}
	log.Infof("map: %dkm x %dkm, tiles per axis: %d, tile size: %dpx, max zoom: %d, resolution: ~%.1fcm per pixel",
		grid.MapSizeKm, grid.MapSizeKm, grid.TilesPerAxis, grid.TileSizePx, grid.MaxZoom, grid.ResolutionCmPerPixel())

	src := loadSource(conf.Map.Source)

	task := NewTask(grid, src)
	// 注册安全退出
	SafeExitInst.Register(task.AbortFun)

	// 开始切片
	if err := task.Run(); err != nil {
		log.Fatalf("task failed, details: %s", err)
	}

	secs := time.Since(start).Seconds()
	log.Printf("\n%.3fs finished...", secs)
}

// Task 切片任务
type Task struct {
	ID          string
	Name        string
	Grid        *Grid
	Source      image.Image
	Store       TileStore
	Quality     int
	Levels      []LevelStat
	workerCount int
	tileWG      sync.WaitGroup
	abort       chan struct{}
	aborted     int32
	workers     chan struct{}
}

// LevelStat 单个级别的产出统计
type LevelStat struct {
	Zoom  int
	Tiles int64
	Bytes int64
}

// NewTask 创建切片任务
func NewTask(grid *Grid, src image.Image) *Task {
	id, _ := shortid.Generate()

	task := Task{
		ID:      id,
		Name:    conf.Map.Name,
		Grid:    grid,
		Source:  src,
		Quality: conf.Output.Quality,
		Levels:  make([]LevelStat, grid.MaxZoom+1),
	}

	for z := range task.Levels {
		task.Levels[z].Zoom = z
		n := int64(grid.TilesAtZoom(z))
		log.Printf("zoom: %d, tiles: %d \n", z, n*n)
	}

	task.workerCount = conf.Task.Workers
	task.abort = make(chan struct{})
	task.workers = make(chan struct{}, task.workerCount)

	return &task
}

// AbortFun 结束任务
func (task *Task) AbortFun() {
	if atomic.CompareAndSwapInt32(&task.aborted, 0, 1) {
		close(task.abort)
	}
}

// Run 生成全部级别, 级别之间串行, 级别内部并发
func (task *Task) Run() error {
	store, err := newTileStore(conf.Output.Format, conf.Output.Directory, task.Name, task.Grid)
	if err != nil {
		return err
	}
	task.Store = store
	defer store.Close()

	// LOD 0 直接切源图
	task.sliceBase()
	// 切完即可释放源图
	task.Source = nil

	// 逐级合成, 上一级全部落盘后才能开始下一级
	for z := 1; z <= task.Grid.MaxZoom; z++ {
		if atomic.LoadInt32(&task.aborted) == 1 {
			break
		}
		task.buildLevel(z)
	}

	if atomic.LoadInt32(&task.aborted) == 1 {
		return fmt.Errorf("task %s aborted", task.ID)
	}

	if mb, ok := store.(*mbtilesStore); ok {
		if err := mb.writeMetadata(task.Name); err != nil {
			log.Errorf("write mbtiles metadata error ~ %s", err)
		}
	}
	// 元数据最后写, 中途失败不能留下完整假象
	if err := writeMetadata(task.Grid, task.Name, conf.Output.Directory); err != nil {
		return err
	}
	if err := writeLeafletConfig(task.Grid, conf.Output.Directory); err != nil {
		return err
	}
	task.printStatistics()
	return nil
}

// sliceBase 生成 LOD 0 瓦片
func (task *Task) sliceBase() {
	g := task.Grid
	srcBounds := task.Source.Bounds()
	srcTileSize := tileSourceSize(srcBounds.Dx(), g.MapSizeM, g.MetersPerTile)
	log.Infof("source tile size: %dpx (will be resized to %dpx)", srcTileSize, g.TileSizePx)

	total := int64(g.TilesPerAxis) * int64(g.TilesPerAxis)
	bar := pb.New64(total).Prefix("Zoom 0 : ").Postfix("\n")
	bar.SetRefreshRate(time.Second)
	bar.Start()

	for x := 0; x < g.TilesPerAxis; x++ {
		for y := 0; y < g.TilesPerAxis; y++ {
			coord := TileCoord{Z: 0, X: uint32(x), Y: uint32(y)}
			bar.Increment()
			// 断点续切
			if BreakPointInst.IsSuccessed(coord) {
				continue
			}
			window := baseWindow(x, y, srcTileSize).Intersect(srcBounds)
			if window.Empty() {
				// 网格超出源图边界, 该格不出瓦片
				continue
			}
			select {
			case task.workers <- struct{}{}:
				task.tileWG.Add(1)
				go task.baseTileWorker(coord, window)
			case <-task.abort:
				log.Infof("Task %s got canceled.", task.Name)
				task.tileWG.Wait()
				bar.Finish()
				return
			}
		}
	}
	// 本级屏障
	task.tileWG.Wait()
	bar.FinishPrint(fmt.Sprintf("Task %s Zoom 0 finished ~", task.ID))
}

// baseTileWorker 切一块 LOD 0 瓦片
func (task *Task) baseTileWorker(coord TileCoord, window image.Rectangle) {
	start := time.Now()
	//workers完成并清退
	defer func() {
		task.tileWG.Done()
		<-task.workers
	}()

	img, err := renderBaseTile(task.Source, window, task.Grid.TileSizePx)
	if err != nil {
		log.Errorf("render tile %v error ~ %s", coord, err)
		return
	}
	task.saveTile(Tile{C: coord, Img: img})

	cost := time.Since(start).Milliseconds()
	log.Debugf("tile(z:%d, x:%d, y:%d), %dms ...", coord.Z, coord.X, coord.Y, cost)
}

// buildLevel 由 z-1 级合成 z 级
func (task *Task) buildLevel(zoom int) {
	g := task.Grid
	n := g.TilesAtZoom(zoom)
	prevExtent := g.TilesAtZoom(zoom - 1)

	total := int64(n) * int64(n)
	bar := pb.New64(total).Prefix(fmt.Sprintf("Zoom %d : ", zoom)).Postfix("\n")
	bar.SetRefreshRate(time.Second)
	bar.Start()

	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			coord := TileCoord{Z: uint32(zoom), X: uint32(x), Y: uint32(y)}
			bar.Increment()
			if BreakPointInst.IsSuccessed(coord) {
				continue
			}
			select {
			case task.workers <- struct{}{}:
				task.tileWG.Add(1)
				go task.zoomTileWorker(coord, prevExtent)
			case <-task.abort:
				log.Infof("Task %s got canceled.", task.Name)
				task.tileWG.Wait()
				bar.Finish()
				return
			}
		}
	}
	task.tileWG.Wait()
	bar.FinishPrint(fmt.Sprintf("Task %s Zoom %d finished ~", task.ID, zoom))
}

// zoomTileWorker 合成一块低层级瓦片, 取不到的象限留空
func (task *Task) zoomTileWorker(coord TileCoord, prevExtent int) {
	defer func() {
		task.tileWG.Done()
		<-task.workers
	}()

	var quadrants [4]image.Image
	for dy := 0; dy < 2; dy++ {
		for dx := 0; dx < 2; dx++ {
			sx := int(coord.X)*2 + dx
			sy := int(coord.Y)*2 + dy
			// 上一级边缘以外没有瓦片
			if sx >= prevExtent || sy >= prevExtent {
				continue
			}
			prev := TileCoord{Z: coord.Z - 1, X: uint32(sx), Y: uint32(sy)}
			data, err := task.Store.Read(prev)
			if err != nil {
				log.Debugf("tile %v missing, quadrant left blank ~ %s", prev, err)
				continue
			}
			img, _, err := image.Decode(bytes.NewReader(data))
			if err != nil {
				log.Errorf("decode tile %v error ~ %s", prev, err)
				continue
			}
			quadrants[dy*2+dx] = img
		}
	}

	img := composeZoomTile(quadrants, task.Grid.TileSizePx)
	task.saveTile(Tile{C: coord, Img: img})
}

// saveTile 编码并写入存储
func (task *Task) saveTile(tile Tile) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, tile.Img, &jpeg.Options{Quality: task.Quality}); err != nil {
		log.Errorf("encode tile %v error ~ %s", tile.C, err)
		return
	}
	if err := task.Store.Write(tile.C, buf.Bytes()); err != nil {
		log.Errorf("write tile %v error ~ %s", tile.C, err)
		return
	}

	stat := &task.Levels[tile.C.Z]
	atomic.AddInt64(&stat.Tiles, 1)
	atomic.AddInt64(&stat.Bytes, int64(buf.Len()))
	BreakPointInst.SetSuccessed(tile.C)
}

// printStatistics 输出各级别统计
func (task *Task) printStatistics() {
	var totalTiles, totalBytes int64
	log.Infof("Size by zoom level:")
	for z := range task.Levels {
		stat := &task.Levels[z]
		log.Infof("  LOD %d: %d files, %.1f MB", stat.Zoom, stat.Tiles, float64(stat.Bytes)/(1024*1024))
		totalTiles += stat.Tiles
		totalBytes += stat.Bytes
	}
	if totalTiles == 0 {
		return
	}
	log.Infof("Total tiles: %d", totalTiles)
	log.Infof("Total size: %.1f MB", float64(totalBytes)/(1024*1024))
	log.Infof("Average tile size: %.1f KB", float64(totalBytes)/float64(totalTiles)/1024)
}
