package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	root := t.TempDir()
	store, err := newFileStore(root)
	require.NoError(t, err)
	defer store.Close()

	c := TileCoord{Z: 2, X: 3, Y: 4}
	require.NoError(t, store.Write(c, []byte("tiledata")))

	got, err := store.Read(c)
	require.NoError(t, err)
	assert.Equal(t, []byte("tiledata"), got)

	// {z}/{x}/{y}.jpg 目录树
	_, err = os.Stat(filepath.Join(root, "2", "3", "4.jpg"))
	assert.NoError(t, err)
}

func TestFileStoreMissingTile(t *testing.T) {
	store, err := newFileStore(t.TempDir())
	require.NoError(t, err)

	// 缺块只返回错误, 由上层当空白象限处理
	_, err = store.Read(TileCoord{Z: 9, X: 9, Y: 9})
	assert.Error(t, err)
}

func TestNewTileStoreUnknownFormat(t *testing.T) {
	g, err := NewGrid(13, 542, 100)
	require.NoError(t, err)

	_, err = newTileStore("tar", t.TempDir(), "everon", g)
	assert.Error(t, err)
}

func TestTileCoordFlipY(t *testing.T) {
	// MBTiles 行号自下而上
	assert.Equal(t, uint32(64), TileCoord{Z: 1, X: 0, Y: 0}.flipY(65))
	assert.Equal(t, uint32(0), TileCoord{Z: 1, X: 0, Y: 64}.flipY(65))
	assert.Equal(t, uint32(0), TileCoord{Y: 0}.flipY(1))
}

func TestTileCoordKey(t *testing.T) {
	c := TileCoord{Z: 3, X: 12, Y: 7}
	assert.Equal(t, "3-12-7", c.Key())
	assert.Equal(t, "3/12/7", c.String())
}
