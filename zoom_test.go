package main

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposeZoomTileUniformColor(t *testing.T) {
	// 4 块同色瓦片合成后仍为同色
	want := color.RGBA{120, 80, 40, 255}
	q := solidImage(64, 64, want)

	img := composeZoomTile([4]image.Image{q, q, q, q}, 64)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 64, img.Bounds().Dy())
	assertSolid(t, img, want, 4)
}

func TestComposeZoomTilePlacement(t *testing.T) {
	red := color.RGBA{220, 30, 30, 255}
	green := color.RGBA{30, 220, 30, 255}
	blue := color.RGBA{30, 30, 220, 255}
	white := color.RGBA{240, 240, 240, 255}

	img := composeZoomTile([4]image.Image{
		solidImage(64, 64, red),   // 左上
		solidImage(64, 64, green), // 右上
		solidImage(64, 64, blue),  // 左下
		solidImage(64, 64, white), // 右下
	}, 64)

	// 各象限中心点
	assertPixel(t, img, 16, 16, red, 4)
	assertPixel(t, img, 48, 16, green, 4)
	assertPixel(t, img, 16, 48, blue, 4)
	assertPixel(t, img, 48, 48, white, 4)
}

func TestComposeZoomTileMissingQuadrant(t *testing.T) {
	red := color.RGBA{220, 30, 30, 255}
	blue := color.RGBA{30, 30, 220, 255}
	white := color.RGBA{240, 240, 240, 255}

	// 右上象限缺失, 其余 3 块正常摆放, 缺口留黑而不是报错
	img := composeZoomTile([4]image.Image{
		solidImage(64, 64, red),
		nil,
		solidImage(64, 64, blue),
		solidImage(64, 64, white),
	}, 64)

	assertPixel(t, img, 16, 16, red, 4)
	assertPixel(t, img, 48, 16, color.RGBA{0, 0, 0, 0}, 0)
	assertPixel(t, img, 16, 48, blue, 4)
	assertPixel(t, img, 48, 48, white, 4)
}

func TestComposeZoomTileAllMissing(t *testing.T) {
	img := composeZoomTile([4]image.Image{nil, nil, nil, nil}, 64)
	assertSolid(t, img, color.RGBA{0, 0, 0, 0}, 0)
}

func TestComposeZoomTileOddSizeSeam(t *testing.T) {
	white := color.RGBA{255, 255, 255, 255}
	q := solidImage(65, 65, white)

	// 奇数尺寸: 半边取整为 32, 2x32 只盖到 64, 最后一行/列留缝
	img := composeZoomTile([4]image.Image{q, q, q, q}, 65)
	assertPixel(t, img, 16, 16, white, 4)
	assertPixel(t, img, 48, 48, white, 4)
	assertPixel(t, img, 64, 64, color.RGBA{0, 0, 0, 0}, 0)
	assertPixel(t, img, 64, 10, color.RGBA{0, 0, 0, 0}, 0)
	assertPixel(t, img, 10, 64, color.RGBA{0, 0, 0, 0}, 0)
}
