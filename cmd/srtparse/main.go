package main

import (
	"os"

	"github.com/monasticacademy/srt-to-json-microservice/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
