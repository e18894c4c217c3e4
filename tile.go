package main

import (
	"fmt"
	"image"
)

// TileCoord 瓦片坐标, 原点在左上角
type TileCoord struct {
	Z, X, Y uint32
}

func (c TileCoord) String() string {
	return fmt.Sprintf("%d/%d/%d", c.Z, c.X, c.Y)
}

// Key 断点记录用的唯一键
func (c TileCoord) Key() string {
	return fmt.Sprintf("%d-%d-%d", c.Z, c.X, c.Y)
}

// flipY TMS 行号自下而上, rows 为该级别每轴瓦片数
func (c TileCoord) flipY(rows uint32) uint32 {
	return rows - 1 - c.Y
}

// Tile 自定义瓦片存储
type Tile struct {
	C   TileCoord
	Img image.Image
}

// Constants representing TileFormat types
const (
	PNG  string = "png"
	JPG         = "jpg"
	WEBP        = "webp"
)
