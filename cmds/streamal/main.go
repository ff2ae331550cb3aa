package main

import (
	"github.com/kiteco/streamal/cmdline"
	"github.com/kiteco/streamal/envutil"
	"github.com/kiteco/streamal/logging"
	"go.uber.org/zap"
)

func main() {
	cmdline.MustDispatch(runCmd, generateCmd, reportCmd)
}

func newLogger() (*zap.Logger, error) {
	return logging.New(logging.Options{
		Level:   envutil.GetenvDefault("STREAMAL_LOG_LEVEL", "info"),
		Console: true,
	})
}
