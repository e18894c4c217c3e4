package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/shaxbee/go-spatialite"
)

// TileStore 瓦片存储后端
// 金字塔逐级合成时下一级通过 Read 取回上一级瓦片
type TileStore interface {
	Write(c TileCoord, data []byte) error
	Read(c TileCoord) ([]byte, error)
	Close() error
}

// newTileStore 根据输出格式选择后端
func newTileStore(format, dir, name string, g *Grid) (TileStore, error) {
	switch format {
	case "mbtiles":
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, err
		}
		return newMBTilesStore(filepath.Join(dir, name+".mbtiles"), g)
	case "file", "":
		return newFileStore(dir)
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}

// fileStore {z}/{x}/{y}.jpg 目录树
type fileStore struct {
	root string
}

func newFileStore(root string) (*fileStore, error) {
	if err := os.MkdirAll(root, os.ModePerm); err != nil {
		return nil, err
	}
	return &fileStore{root: root}, nil
}

func (s *fileStore) path(c TileCoord) string {
	return filepath.Join(s.root, fmt.Sprintf(`%d`, c.Z), fmt.Sprintf(`%d`, c.X), fmt.Sprintf(`%d.%s`, c.Y, JPG))
}

func (s *fileStore) Write(c TileCoord, data []byte) error {
	dir := filepath.Join(s.root, fmt.Sprintf(`%d`, c.Z), fmt.Sprintf(`%d`, c.X))
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(s.path(c), data, os.ModePerm)
}

func (s *fileStore) Read(c TileCoord) ([]byte, error) {
	return os.ReadFile(s.path(c))
}

func (s *fileStore) Close() error { return nil }

// mbtilesStore 单文件 sqlite 存储
type mbtilesStore struct {
	db   *sql.DB
	grid *Grid
}

func newMBTilesStore(path string, g *Grid) (*mbtilesStore, error) {
	db, err := sql.Open("spatialite", path)
	if err != nil {
		return nil, err
	}
	// sqlite 单写者, 多连接并发写会报 busy
	db.SetMaxOpenConns(1)
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS metadata (name TEXT, value TEXT)`,
		`CREATE TABLE IF NOT EXISTS tiles (zoom_level INTEGER, tile_column INTEGER, tile_row INTEGER, tile_data BLOB)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS tile_index ON tiles (zoom_level, tile_column, tile_row)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, err
		}
	}
	return &mbtilesStore{db: db, grid: g}, nil
}

// row MBTiles 行号自下而上, 需按该级别范围翻转
func (s *mbtilesStore) row(c TileCoord) uint32 {
	return c.flipY(uint32(s.grid.TilesAtZoom(int(c.Z))))
}

func (s *mbtilesStore) Write(c TileCoord, data []byte) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO tiles (zoom_level, tile_column, tile_row, tile_data) VALUES (?, ?, ?, ?)`,
		c.Z, c.X, s.row(c), data)
	return err
}

func (s *mbtilesStore) Read(c TileCoord) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(
		`SELECT tile_data FROM tiles WHERE zoom_level = ? AND tile_column = ? AND tile_row = ?`,
		c.Z, c.X, s.row(c)).Scan(&data)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *mbtilesStore) Close() error { return s.db.Close() }

// writeMetadata 写入 mbtiles 规范要求的 metadata 表
func (s *mbtilesStore) writeMetadata(name string) error {
	b := s.grid.MapBounds()
	rows := [][2]string{
		{"name", name},
		{"format", JPG},
		{"minzoom", "0"},
		{"maxzoom", strconv.Itoa(s.grid.MaxZoom)},
		{"bounds", fmt.Sprintf("%g,%g,%g,%g", b.Min[0], b.Min[1], b.Max[0], b.Max[1])},
	}
	for _, row := range rows {
		if _, err := s.db.Exec(`INSERT INTO metadata (name, value) VALUES (?, ?)`, row[0], row[1]); err != nil {
			return err
		}
	}
	return nil
}
