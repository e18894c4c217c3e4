package main

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Grid 金字塔网格参数
type Grid struct {
	MapSizeKm     int
	MapSizeM      int
	TileSizePx    int
	MetersPerTile int
	TilesPerAxis  int
	MaxZoom       int
}

// NewGrid 校验并计算网格参数
func NewGrid(sizeKm, tileSizePx, metersPerTile int) (*Grid, error) {
	if sizeKm <= 0 || tileSizePx <= 0 || metersPerTile <= 0 {
		return nil, fmt.Errorf("invalid grid params: sizeKm=%d, tileSizePx=%d, metersPerTile=%d",
			sizeKm, tileSizePx, metersPerTile)
	}
	sizeM := sizeKm * 1000
	// 地图边长必须被整除, 否则边缘出现残缺瓦片
	if sizeM%metersPerTile != 0 {
		return nil, fmt.Errorf("map size %dm is not divisible by %dm per tile", sizeM, metersPerTile)
	}
	tilesPerAxis := sizeM / metersPerTile
	return &Grid{
		MapSizeKm:     sizeKm,
		MapSizeM:      sizeM,
		TileSizePx:    tileSizePx,
		MetersPerTile: metersPerTile,
		TilesPerAxis:  tilesPerAxis,
		MaxZoom:       calcMaxZoom(tilesPerAxis),
	}, nil
}

// calcMaxZoom 最大缩放级别
func calcMaxZoom(tilesPerAxis int) int {
	return int(math.Ceil(math.Log2(float64(tilesPerAxis))))
}

// TilesAtZoom 该级别每轴瓦片数, 顶层至少保留 1 块
func (g *Grid) TilesAtZoom(zoom int) int {
	n := g.TilesPerAxis >> uint(zoom)
	if n < 1 {
		return 1
	}
	return n
}

// TotalTiles 全部级别瓦片总数
func (g *Grid) TotalTiles() int64 {
	var total int64
	for z := 0; z <= g.MaxZoom; z++ {
		n := int64(g.TilesAtZoom(z))
		total += n * n
	}
	return total
}

// MapBounds 地图范围, 原点在西南角
func (g *Grid) MapBounds() orb.Bound {
	m := float64(g.MapSizeM)
	return orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{m, m}}
}

// ResolutionCmPerPixel LOD 0 每像素对应的地面厘米数
func (g *Grid) ResolutionCmPerPixel() float64 {
	return float64(g.MetersPerTile*100) / float64(g.TileSizePx)
}
