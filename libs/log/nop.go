package log

import (
	"github.com/rs/zerolog"
)

// NewNopLogger returns a logger that discards everything. Components use it
// when no logger option is supplied.
func NewNopLogger() Logger {
	return &defaultLogger{
		Logger: zerolog.Nop(),
	}
}
