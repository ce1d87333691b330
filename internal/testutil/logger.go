package testutil

import (
	"bytes"
	"io"

	"github.com/axionhelmets/storefront-server/internal/logger"
)

func MakeNoopLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, 0, "text")
}

// MakeBufferLogger returns a debug-level JSON logger writing into the returned buffer.
func MakeBufferLogger() (*logger.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return logger.NewWithWriter(buf, -4, "json"), buf
}
