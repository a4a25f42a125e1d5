/*package lib contains the functions which glue wakefield's command line tool
to its subpackages: config parsing, error reporting, and collecting the
initial bunch. Almost all of the heavy lifting is done by lib/'s subpackages.
*/
package lib

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var (
	// Version is the version of the software. It is written to the log at
	// startup so that outputs can be matched to the code which made them.
	Version = "0.1.0"
)

// NewLogger returns a zerolog.Logger which writes human-readable output to
// stderr. Debug messages, which include per-turn timings, are only written if
// verbose is true.
func NewLogger(verbose bool) zerolog.Logger {
	return newLogger(os.Stderr, verbose)
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose { level = zerolog.DebugLevel }

	cw := zerolog.ConsoleWriter{ Out: w, TimeFormat: time.Kitchen }
	return zerolog.New(cw).Level(level).With().Timestamp().Logger()
}
