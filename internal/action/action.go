// Package action implements the scan and audit verbs on top of the engine,
// baseline and audit packages. The CLI only parses flags into option
// structs and calls into here.
package action

import (
	"io"

	"github.com/rs/zerolog"
)

// Env carries the process streams and logger.
type Env struct {
	Stdout io.Writer
	Stdin  io.Reader
	Logger zerolog.Logger
}
