package main

import (
	"os"

	"github.com/pyropy/chunkfs/lib/logger"
)

var log, _ = logger.New("client-cli")

func main() {
	app := newApp(os.Stdin, os.Stdout)
	if err := app.Run(os.Args); err != nil {
		log.Errorw("cli", "error", err)
		os.Exit(1)
	}
}
