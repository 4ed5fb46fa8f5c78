package utils

import (
	"io"
	"os"

	log15 "github.com/inconshreveable/log15/v3"
)

// NewLogger returns a logfmt logger writing to stderr at the given level.
// Unknown levels fall back to info.
func NewLogger(level string) log15.Logger {
	return newLogger(os.Stderr, level)
}

func newLogger(w io.Writer, level string) log15.Logger {
	lvl, err := log15.LvlFromString(level)
	if err != nil {
		lvl = log15.LvlInfo
	}

	logger := log15.New("app", "sups")
	logger.SetHandler(log15.LvlFilterHandler(lvl, log15.StreamHandler(w, log15.LogfmtFormat())))
	return logger
}

// DiscardLogger drops every record. Used by tests and optional components.
func DiscardLogger() log15.Logger {
	logger := log15.New()
	logger.SetHandler(log15.DiscardHandler())
	return logger
}
