package main

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/nfnt/resize"
)

// subImager 支持裁剪的图像类型
type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// tileSourceSize 单块瓦片在源图上的边长(像素)
// 缩放系数只取宽度, 源图按正方形处理, 高度不参与计算
func tileSourceSize(srcWidth, mapSizeM, metersPerTile int) int {
	pixelsPerMeter := float64(srcWidth) / float64(mapSizeM)
	return int(math.Round(float64(metersPerTile) * pixelsPerMeter))
}

// baseWindow LOD 0 网格单元 (x,y) 对应的源图裁剪窗口
func baseWindow(x, y, srcTileSize int) image.Rectangle {
	return image.Rect(x*srcTileSize, y*srcTileSize, (x+1)*srcTileSize, (y+1)*srcTileSize)
}

// renderBaseTile 从源图裁剪一块并重采样为标准瓦片, 纯函数
// 窗口裁剪到源图边界, 裁空则报错由上层跳过
func renderBaseTile(src image.Image, window image.Rectangle, tileSizePx int) (image.Image, error) {
	window = window.Intersect(src.Bounds())
	if window.Empty() {
		return nil, fmt.Errorf("empty crop window %v", window)
	}
	cropped := crop(src, window)
	return resize.Resize(uint(tileSizePx), uint(tileSizePx), cropped, resize.Lanczos3), nil
}

// crop 优先走 SubImage 零拷贝, 其余类型落回逐像素绘制
func crop(src image.Image, r image.Rectangle) image.Image {
	if si, ok := src.(subImager); ok {
		return si.SubImage(r)
	}
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), src, r.Min, draw.Src)
	return dst
}
