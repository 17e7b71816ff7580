// Package logutil provides a shared destination for debug logs.
//
// Packages acquire a prefixed logger once at init time; where the combined
// output goes is decided later by the -log flag.
package logutil

import (
	"io"
	"log"
	"os"
	"sync"
)

var (
	mu      sync.Mutex
	out     io.Writer = io.Discard
	loggers []*log.Logger
)

// GetLogger gets a logger with the given prefix, writing to the output set
// by SetOutput or SetOutputFile.
func GetLogger(prefix string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	logger := log.New(out, prefix, log.LstdFlags)
	loggers = append(loggers, logger)
	return logger
}

// SetOutput redirects the output of all loggers obtained with GetLogger to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	for _, logger := range loggers {
		logger.SetOutput(w)
	}
}

// SetOutputFile redirects the output of all loggers to the named file,
// creating it if needed and appending to it otherwise. An empty path
// restores the discarding output.
func SetOutputFile(path string) error {
	if path == "" {
		SetOutput(io.Discard)
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	SetOutput(f)
	return nil
}
