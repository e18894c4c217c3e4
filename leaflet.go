package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"text/template"

	"github.com/paulmach/orb"
)

// LeafletConfig 查看器配置, 模板的数据源
type LeafletConfig struct {
	MapSizeM           int
	TileSizePx         int
	MetersPerTile      int
	MaxZoom            int
	ScaleFactor        float64
	EdgeToCenterOffset float64
	Bounds             orb.Bound
	TileURL            string
}

// NewLeafletConfig 由网格参数生成查看器配置
func NewLeafletConfig(g *Grid) LeafletConfig {
	return LeafletConfig{
		MapSizeM:           g.MapSizeM,
		TileSizePx:         g.TileSizePx,
		MetersPerTile:      g.MetersPerTile,
		MaxZoom:            g.MaxZoom,
		ScaleFactor:        scaleFactor(g.TileSizePx, g.MetersPerTile),
		EdgeToCenterOffset: float64(g.MetersPerTile) / 2,
		Bounds:             g.MapBounds(),
		TileURL:            "/map-tiles/{z}/{x}/{y}." + JPG,
	}
}

// scaleFactor CRS 变换系数, 以 256px 标准瓦片为基准
func scaleFactor(tileSizePx, metersPerTile int) float64 {
	return 1 / (float64(tileSizePx) / 256 / float64(metersPerTile))
}

// GameToLatLng 地图坐标 (x,y) 转查看器坐标 (lat,lng), 瓦片边缘对齐到中心
func GameToLatLng(p orb.Point, offset float64) (lat, lng float64) {
	return p[1] + offset, p[0] + offset
}

// LatLngToGame 查看器坐标转地图坐标
func LatLngToGame(lat, lng, offset float64) orb.Point {
	return orb.Point{lng - offset, lat - offset}
}

// InvertTileY 瓦片行号取反: 地图原点在左下而瓦片原点在左上
func InvertTileY(y int) int {
	return -(y + 1)
}

// GridRef 网格参考编号
type GridRef struct {
	Major string
	Minor string
}

// CoordsToGrid 坐标转网格参考, 横轴字母纵轴数字, 次级为百米格
func CoordsToGrid(p orb.Point) GridRef {
	majorX := int(math.Floor(p[0] / 1000))
	majorY := int(math.Floor(p[1] / 1000))
	minorX := int(math.Floor(math.Mod(p[0], 1000) / 100))
	minorY := int(math.Floor(math.Mod(p[1], 1000) / 100))

	major := fmt.Sprintf("%c%d", rune('A'+majorX), majorY)
	return GridRef{
		Major: major,
		Minor: fmt.Sprintf("%s-%d%d", major, minorX, minorY),
	}
}

// writeLeafletConfig 生成查看器配置脚本
func writeLeafletConfig(g *Grid, dir string) error {
	file, err := os.Create(filepath.Join(dir, "leaflet-config.js"))
	if err != nil {
		return err
	}
	defer file.Close()
	return leafletTemplate.Execute(file, NewLeafletConfig(g))
}

var leafletTemplate = template.Must(template.New("leaflet").Parse(leafletJS))

const leafletJS = `// Leaflet configuration for the generated tile pyramid.
// This file is generated, do not edit by hand.

// Custom tile layer with inverted Y axis (map uses bottom-left origin)
L.TileLayer.InvertedY = L.TileLayer.extend({
  getTileUrl: function(coords) {
    coords.y = -(coords.y + 1);
    return L.TileLayer.prototype.getTileUrl.call(this, coords);
  }
});

// Custom CRS for flat map coordinates in meters
L.CRS.FlatMapCRS = L.extend({}, L.CRS, {
  projection: L.Projection.LonLat,
  transformation: new L.Transformation({{.ScaleFactor}}, 0, -{{.ScaleFactor}}, 0),

  infinite: false,
  wrapLng: null,
  wrapLat: null
});

const MAP_CONFIG = {
  MAP_SIZE_M: {{.MapSizeM}},
  TILE_SIZE_PX: {{.TileSizePx}},
  METERS_PER_TILE: {{.MetersPerTile}},
  MAX_ZOOM: {{.MaxZoom}},
  MIN_ZOOM: 0,

  BOUNDS: [
    [{{index .Bounds.Min 0}}, {{index .Bounds.Min 1}}],
    [{{index .Bounds.Max 0}}, {{index .Bounds.Max 1}}]
  ],

  EDGE_TO_CENTER_OFFSET: {{.EdgeToCenterOffset}}
};

function gameCoordsToLatLng(gameCoords) {
  return L.latLng([
    gameCoords[1] + MAP_CONFIG.EDGE_TO_CENTER_OFFSET,
    gameCoords[0] + MAP_CONFIG.EDGE_TO_CENTER_OFFSET
  ]);
}

function latLngToGameCoords(latLng) {
  return [
    latLng.lng - MAP_CONFIG.EDGE_TO_CENTER_OFFSET,
    latLng.lat - MAP_CONFIG.EDGE_TO_CENTER_OFFSET
  ];
}

function coordsToGrid(x, y) {
  const majorX = Math.floor(x / 1000);
  const majorY = Math.floor(y / 1000);
  const minorX = Math.floor((x % 1000) / 100);
  const minorY = Math.floor((y % 1000) / 100);

  const gridLetter = String.fromCharCode(65 + majorX);
  const major = gridLetter + majorY;

  return {
    major: major,
    minor: major + '-' + minorX + minorY,
    coordinates: { x: x, y: y }
  };
}

function createMap(containerId, options = {}) {
  const map = L.map(containerId, {
    crs: L.CRS.FlatMapCRS,
    center: [MAP_CONFIG.MAP_SIZE_M / 2, MAP_CONFIG.MAP_SIZE_M / 2],
    zoom: 2,
    minZoom: MAP_CONFIG.MIN_ZOOM,
    maxZoom: MAP_CONFIG.MAX_ZOOM,
    maxBounds: MAP_CONFIG.BOUNDS,
    maxBoundsViscosity: 1.0,
    ...options
  });

  const tileLayer = new L.TileLayer.InvertedY('{{.TileURL}}', {
    maxZoom: MAP_CONFIG.MAX_ZOOM,
    minZoom: MAP_CONFIG.MIN_ZOOM,
    zoomReverse: true,
    bounds: MAP_CONFIG.BOUNDS,
    noWrap: true
  });

  tileLayer.addTo(map);

  return map;
}

if (typeof module !== 'undefined' && module.exports) {
  module.exports = {
    MAP_CONFIG,
    gameCoordsToLatLng,
    latLngToGameCoords,
    coordsToGrid,
    createMap
  };
}
`
