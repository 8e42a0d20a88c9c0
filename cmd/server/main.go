package main

import (
	"github.com/mynah-ai/mynah/internal/server"
	"github.com/mynah-ai/mynah/internal/util"
	"github.com/mynah-ai/mynah/pkg/logger"
	"github.com/mynah-ai/mynah/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
