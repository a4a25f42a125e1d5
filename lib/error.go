package lib

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog"

	"github.com/phil-mansfield/wakefield/lib/wake"
)

/* error.go file contains functions related to error reporting. */

// Log is the logger used by wakefield's command line tools. It writes
// human-readable output to stderr until SetLogger is called.
var Log = NewLogger(false)

// exit is replaced in tests.
var exit = os.Exit

// SetLogger replaces Log.
func SetLogger(log zerolog.Logger) { Log = log }

// ExternalErrorf reports an error to stderr and kills the function. It should
// be used when an error is something a user could reasonbly be expected to
// fix through changes in configuration/data/environement. It has the same
// signature at the standard fmt.*printf() functions.
func ExternalErrorf(format string, a ...interface{}) {
	Log.Error().Msg("wakefield exited early with the following error:\n" +
		fmt.Sprintf(format, a...))
	exit(1)
}

// InternalErrorf reports an error to stderr along with a stack trace and
// kills the function. It should be used when the error requires a code dive to
// fix. It has the same signature at the standard fmt.*printf() functions.
func InternalErrorf(format string, a ...interface{}) {
	Log.Error().
		Str("stack", string(debug.Stack())).
		Msg("wakefield exited early with the following internal error:\n" +
			fmt.Sprintf(format, a...))
	exit(1)
}

// ReportError kills the program with InternalErrorf if err comes from a broken
// invariant inside the wake engine and with ExternalErrorf otherwise.
func ReportError(err error) {
	if errors.Is(err, wake.ErrKicksMismatch) {
		InternalErrorf("%s", err.Error())
		return
	}
	ExternalErrorf("%s", err.Error())
}
