package main

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// assertPixel 重采样有舍入误差, 按容差比较
func assertPixel(t *testing.T, img image.Image, x, y int, want color.RGBA, tolerance float64) {
	t.Helper()
	r, g, b, _ := img.At(x, y).RGBA()
	assert.InDelta(t, float64(want.R), float64(r>>8), tolerance, "red at (%d,%d)", x, y)
	assert.InDelta(t, float64(want.G), float64(g>>8), tolerance, "green at (%d,%d)", x, y)
	assert.InDelta(t, float64(want.B), float64(b>>8), tolerance, "blue at (%d,%d)", x, y)
}

func assertSolid(t *testing.T, img image.Image, want color.RGBA, tolerance float64) {
	t.Helper()
	b := img.Bounds()
	points := [][2]int{
		{b.Min.X, b.Min.Y},
		{b.Max.X - 1, b.Min.Y},
		{b.Min.X, b.Max.Y - 1},
		{b.Max.X - 1, b.Max.Y - 1},
		{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2},
	}
	for _, p := range points {
		assertPixel(t, img, p[0], p[1], want, tolerance)
	}
}

func TestTileSourceSize(t *testing.T) {
	tests := []struct {
		name          string
		srcWidth      int
		mapSizeM      int
		metersPerTile int
		want          int
	}{
		{"one pixel per meter", 13000, 13000, 100, 100},
		{"half pixel per meter", 6500, 13000, 100, 50},
		{"rounding up", 10000, 13000, 100, 77}, // 76.92 -> 77
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tileSourceSize(tt.srcWidth, tt.mapSizeM, tt.metersPerTile))
		})
	}
}

func TestBaseWindow(t *testing.T) {
	assert.Equal(t, image.Rect(0, 0, 100, 100), baseWindow(0, 0, 100))
	assert.Equal(t, image.Rect(200, 300, 300, 400), baseWindow(2, 3, 100))
}

func TestRenderBaseTileSize(t *testing.T) {
	src := solidImage(400, 400, color.RGBA{200, 50, 50, 255})

	img, err := renderBaseTile(src, image.Rect(0, 0, 100, 100), 64)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 64, img.Bounds().Dy())
}

func TestRenderBaseTileSolidColor(t *testing.T) {
	want := color.RGBA{10, 200, 30, 255}
	src := solidImage(200, 200, want)

	img, err := renderBaseTile(src, image.Rect(50, 50, 150, 150), 32)
	require.NoError(t, err)
	assertSolid(t, img, want, 4)
}

func TestRenderBaseTileClampsWindow(t *testing.T) {
	want := color.RGBA{90, 90, 200, 255}
	src := solidImage(90, 90, want)

	// 窗口超出源图边界, 裁剪后仍应出一块完整尺寸的瓦片
	img, err := renderBaseTile(src, image.Rect(50, 50, 150, 150), 32)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 32, img.Bounds().Dy())
	assertSolid(t, img, want, 4)
}

func TestRenderBaseTileEmptyWindow(t *testing.T) {
	src := solidImage(90, 90, color.RGBA{255, 255, 255, 255})

	_, err := renderBaseTile(src, image.Rect(100, 100, 200, 200), 32)
	assert.Error(t, err)
}

// 逐格切完后每块瓦片应与源图对应区域一致
func TestBaseTilesMatchSourceRegions(t *testing.T) {
	red := color.RGBA{220, 30, 30, 255}
	green := color.RGBA{30, 220, 30, 255}
	blue := color.RGBA{30, 30, 220, 255}
	yellow := color.RGBA{220, 220, 30, 255}

	src := image.NewRGBA(image.Rect(0, 0, 200, 200))
	fill := func(r image.Rectangle, c color.RGBA) {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				src.SetRGBA(x, y, c)
			}
		}
	}
	fill(image.Rect(0, 0, 100, 100), red)
	fill(image.Rect(100, 0, 200, 100), green)
	fill(image.Rect(0, 100, 100, 200), blue)
	fill(image.Rect(100, 100, 200, 200), yellow)

	want := map[[2]int]color.RGBA{
		{0, 0}: red,
		{1, 0}: green,
		{0, 1}: blue,
		{1, 1}: yellow,
	}
	for cell, c := range want {
		window := baseWindow(cell[0], cell[1], 100)
		img, err := renderBaseTile(src, window, 64)
		require.NoError(t, err)
		assertSolid(t, img, c, 4)
	}
}
