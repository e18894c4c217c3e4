package main

import (
	"flag"
	"fmt"
	"os"
)

var (
	hf         bool
	configPath string
	logLevel   string
	sourcePath string
	outputDir  string
	forceRun   bool
)

func InitFlag() {
	flag.BoolVar(&hf, "h", false, "this help")
	flag.StringVar(&configPath, "c", "./conf/conf.toml", "set config `file`")
	flag.StringVar(&logLevel, "l", "info", "set log level (default: info)")
	flag.StringVar(&sourcePath, "i", "", "set source map `image` (overrides map.source)")
	flag.StringVar(&outputDir, "o", "", "set output `directory` (overrides output.directory)")
	flag.BoolVar(&forceRun, "force", false, "process oversized source image without confirmation")
	flag.BoolVar(&forceRun, "y", false, "same as -force")
	flag.Usage = usage
	flag.Parse()

	if hf {
		flag.Usage()
		os.Exit(0)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `maptiler version: maptiler/v0.1.0
Usage: maptiler [-h] [-c filename] [-l logLevel] [-i source] [-o outdir] [-force]
`)
	flag.PrintDefaults()
}
