package main

import (
	"image"
	"image/draw"

	"github.com/nfnt/resize"
)

// composeZoomTile 把上一级别最多 4 块瓦片缩小拼成一块低层级瓦片, 纯函数
// 象限下标 i = dy*2 + dx: 0 左上, 1 右上, 2 左下, 3 右下
// 缺失象限(nil)保持空白, 奇数尺寸时半边取整会留 1px 接缝
func composeZoomTile(quadrants [4]image.Image, tileSizePx int) image.Image {
	canvas := image.NewRGBA(image.Rect(0, 0, tileSizePx, tileSizePx))
	half := tileSizePx / 2
	for i, q := range quadrants {
		if q == nil {
			continue
		}
		dx := i % 2
		dy := i / 2
		small := resize.Resize(uint(half), uint(half), q, resize.Lanczos3)
		region := image.Rect(dx*half, dy*half, dx*half+half, dy*half+half)
		draw.Draw(canvas, region, small, small.Bounds().Min, draw.Src)
	}
	return canvas
}
