package main

import (
	"bufio"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/nfnt/resize"
)

// loadSource 加载源图, 任何失败直接退出
func loadSource(path string) image.Image {
	if path == "" {
		log.Fatalf("source image not set, use -i or map.source")
	}
	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("unable to open source image: %v", err)
	}
	defer file.Close()

	// 先读头部拿尺寸, 避免直接解码超大图
	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		log.Fatalf("unable to read source image header: %v", err)
	}
	pixels := int64(cfg.Width) * int64(cfg.Height)
	log.Infof("source image: %dx%d (%d pixels)", cfg.Width, cfg.Height, pixels)

	// 超大源图需用户确认
	if pixels > conf.Map.MaxSourcePixels && !forceRun {
		log.Warnf("very large source image detected, use -force to skip this prompt")
		if !confirm("Continue anyway? (y/N): ") {
			log.Infof("operation cancelled")
			os.Exit(1)
		}
	}

	if _, err := file.Seek(0, 0); err != nil {
		log.Fatalf("unable to rewind source image: %v", err)
	}
	img, _, err := image.Decode(file)
	if err != nil {
		log.Fatalf("unable to decode source image: %v", err)
	}

	if max := conf.Map.MaxSourceSize; max > 0 {
		img = downscaleSource(img, max)
	}
	return img
}

// confirm 终端确认
func confirm(prompt string) bool {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(strings.ToLower(line)) == "y"
}

// downscaleSource 长边超限时等比缩小源图
func downscaleSource(img image.Image, maxEdge int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxEdge && h <= maxEdge {
		return img
	}
	if w >= h {
		img = resize.Resize(uint(maxEdge), 0, img, resize.Lanczos3)
	} else {
		img = resize.Resize(0, uint(maxEdge), img, resize.Lanczos3)
	}
	nb := img.Bounds()
	log.Infof("source image downscaled to %dx%d", nb.Dx(), nb.Dy())
	return img
}
