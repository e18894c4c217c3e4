package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var BreakPointInst *BreakPoint

func InitBreakPoint() {
	dir := conf.BreakPoint.SaveFilePath
	os.MkdirAll(dir, os.ModePerm)
	path := filepath.Join(dir, fmt.Sprintf("%s.log", conf.Map.Name))
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, os.ModePerm)
	if err != nil {
		fmt.Println(err)
		panic("break point file open is error")
	}

	// 获取断点记录
	successMap := getBreakPoint(file)

	saveChan := make(chan TileCoord, conf.Task.Workers)
	BreakPointInst = &BreakPoint{
		file,
		saveChan,
		successMap,
		false,
	}

	SafeExitInst.Register(BreakPointInst.BreakPointSafeFun)

	// 开始断点任务
	go BreakPointInst.Start()
}

// 读入已完成瓦片键
func getBreakPoint(file *os.File) map[string]struct{} {
	res := make(map[string]struct{})

	br := bufio.NewReader(file)
	for {
		line, isPrefix, err := br.ReadLine()
		if isPrefix {
			continue
		}
		if err == io.EOF {
			break
		}
		res[string(line)] = struct{}{}
	}
	return res
}

type BreakPoint struct {
	file       *os.File
	saveChan   chan TileCoord
	successMap map[string]struct{}
	isClose    bool
}

func (b *BreakPoint) IsSuccessed(c TileCoord) bool {
	_, ok := b.successMap[c.Key()]
	return ok
}

func (b *BreakPoint) SetSuccessed(c TileCoord) {
	if b.isClose {
		return
	}
	b.saveChan <- c
}

func (b *BreakPoint) Start() {
	log.Infof("断点记录任务已开始")
	for c := range b.saveChan {
		b.file.WriteString(c.Key() + "\n")
	}
}

func (b *BreakPoint) BreakPointSafeFun() {
	b.isClose = true
	b.file.Close()
	log.Infof("断点记录任务已安全退出")
}
