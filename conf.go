package main

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

var conf *Conf

type Conf struct {
	App struct {
		Version string `toml:"version"`
		Title   string `toml:"title"`
	} `toml:"app"`
	Output struct {
		Directory      string `toml:"directory"`
		Format         string `toml:"format"`
		Quality        int    `toml:"quality"`
		LogDir         string `toml:"logDir"`
		OutputTerminal bool   `toml:"outputTerminal"`
	} `toml:"output"`
	Task struct {
		Workers int `toml:"workers"`
	} `toml:"task"`
	BreakPoint struct {
		SaveFilePath string `toml:"saveFilePath"`
	} `toml:"breakPoint"`
	Map struct {
		Name            string `toml:"name"`
		Source          string `toml:"source"`
		SizeKm          int    `toml:"sizeKm"`
		TileSizePx      int    `toml:"tileSizePx"`
		MetersPerTile   int    `toml:"metersPerTile"`
		MaxSourcePixels int64  `toml:"maxSourcePixels"`
		MaxSourceSize   int    `toml:"maxSourceSize"`
	} `toml:"map"`
}

// InitConf 初始化配置
func InitConf(cfgFile string) {
	if cfgFile == "" {
		cfgFile = "conf.toml"
	}
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		fmt.Printf("config file(%s) not exist", cfgFile)
		os.Exit(1)
	}
	viper.SetConfigType("toml")
	viper.SetConfigFile(cfgFile)
	viper.AutomaticEnv() // read in environment variables that match
	err := viper.ReadInConfig()
	if err != nil {
		fmt.Printf("read config file(%s) error, details: %s", viper.ConfigFileUsed(), err)
	}
	// 设置默认值
	viper.SetDefault("app.version", "v 0.1.0")
	viper.SetDefault("app.title", "Raster Map Tiler")
	viper.SetDefault("output.directory", "output")
	viper.SetDefault("output.format", "file")
	viper.SetDefault("output.quality", 85)
	viper.SetDefault("task.workers", 4)
	viper.SetDefault("breakPoint.saveFilePath", "breakpoint")
	viper.SetDefault("map.name", "map")
	viper.SetDefault("map.sizeKm", 13)
	viper.SetDefault("map.tileSizePx", 542)
	viper.SetDefault("map.metersPerTile", 100)
	viper.SetDefault("map.maxSourcePixels", 300000000)

	err = viper.Unmarshal(&conf)
	if err != nil {
		panic("配置文件解析失败")
	}

	// 控制台参数覆盖配置文件
	if sourcePath != "" {
		conf.Map.Source = sourcePath
	}
	if outputDir != "" {
		conf.Output.Directory = outputDir
	}
}
