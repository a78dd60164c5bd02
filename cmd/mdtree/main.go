package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/temirov/mdtree/internal/cli"
)

const applicationExecutionFailedMessage = "mdtree failed"

// main is the entry point for the mdtree command.
func main() {
	application := cli.NewApplication()
	executionError := application.Execute(os.Args[1:])
	logger := application.Logger()
	if executionError != nil {
		logger.Error(applicationExecutionFailedMessage, zap.Error(executionError))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}
