package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
)

// Metadata 瓦片系统描述文件, 供查看器读取
type Metadata struct {
	MapName              string      `json:"mapName"`
	MapSizeKm            int         `json:"mapSizeKm"`
	MapSizeM             int         `json:"mapSizeM"`
	TileSizePx           int         `json:"tileSizePx"`
	MetersPerTile        int         `json:"metersPerTile"`
	TilesPerAxis         int         `json:"tilesPerAxis"`
	MaxZoom              int         `json:"maxZoom"`
	ResolutionCmPerPixel float64     `json:"resolutionCmPerPixel"`
	Bounds               Bounds      `json:"bounds"`
	ZoomLevels           []ZoomLevel `json:"zoomLevels"`
}

// Bounds 西南角与东北角
type Bounds struct {
	SW orb.Point `json:"sw"`
	NE orb.Point `json:"ne"`
}

// ZoomLevel 单个级别信息
type ZoomLevel struct {
	Zoom          int `json:"zoom"`
	TilesPerAxis  int `json:"tilesPerAxis"`
	TotalTiles    int `json:"totalTiles"`
	MetersPerTile int `json:"metersPerTile"`
}

// NewMetadata 由网格参数生成元数据
func NewMetadata(g *Grid, name string) Metadata {
	b := g.MapBounds()
	md := Metadata{
		MapName:              name,
		MapSizeKm:            g.MapSizeKm,
		MapSizeM:             g.MapSizeM,
		TileSizePx:           g.TileSizePx,
		MetersPerTile:        g.MetersPerTile,
		TilesPerAxis:         g.TilesPerAxis,
		MaxZoom:              g.MaxZoom,
		ResolutionCmPerPixel: g.ResolutionCmPerPixel(),
		Bounds:               Bounds{SW: b.Min, NE: b.Max},
	}
	for z := 0; z <= g.MaxZoom; z++ {
		n := g.TilesAtZoom(z)
		md.ZoomLevels = append(md.ZoomLevels, ZoomLevel{
			Zoom:          z,
			TilesPerAxis:  n,
			TotalTiles:    n * n,
			// 每升一级覆盖范围翻倍
			MetersPerTile: g.MetersPerTile << uint(z),
		})
	}
	return md
}

// writeMetadata 写 metadata.json, 只在全部级别完成后调用
func writeMetadata(g *Grid, name, dir string) error {
	data, err := json.MarshalIndent(NewMetadata(g, name), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "metadata.json"), data, os.ModePerm)
}
