package common

import (
	"os"
	"os/signal"
	"syscall"
)

// SignalHandler delivers the first interrupt or termination signal received by the process
func SignalHandler() chan os.Signal {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	return c
}
