package main

import (
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/logger"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/pkg/cli"
)

func main() {
	logger.Init()
	cli.Execute()
}
