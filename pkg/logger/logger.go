// Package logger provides plain prefixed loggers for one-shot commands
// whose output is read by a person, not a log collector.
package logger

import (
	"log"
	"os"
)

// New returns a stderr logger prefixing every line with the command name,
// keeping stdout free for the command's own output.
func New(command string) *log.Logger {
	return log.New(os.Stderr, command+": ", log.LstdFlags|log.Lmsgprefix)
}
