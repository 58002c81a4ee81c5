package main

import (
	"log"
	"os"

	"github.com/Renato2024Valente/Buscativa2026/core"
	logsvc "github.com/Renato2024Valente/Buscativa2026/services/logger"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	logger.Enable(false)

	cli := newCommandLine(conf, logger, os.Stdout)
	err := cli.run(os.Args)
	if cerr := cli.close(); cerr != nil {
		logger.Error("closing database", cerr)
	}
	if err != nil {
		if err != errHelp {
			logger.Error(err.Error(), err)
		}
		os.Exit(1)
	}
}
