package geometry

import (
	"io"
	"log"
)

var logger = log.New(io.Discard, "", log.LstdFlags)

// SetLogger routes level loading messages to l.
func SetLogger(l *log.Logger) {
	logger = l
}
