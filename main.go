package main

import (
	"os"

	"mzapi/cmd"
)

// @title        MZAPI
// @version      0.0.1
// @description  米粥宝贝 API 服务
// @BasePath     /
func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
