package lib

/* thread.go contains functions useful for multi-threading. */

import (
	"fmt"
	"runtime"
)

// SetThreads sets the number of threads used by the Go runtime and returns
// it. n = -1 uses every core.
func SetThreads(n int) (int, error) {
	cores := runtime.NumCPU()
	switch {
	case n == -1:
		n = cores
	case n <= 0:
		return 0, fmt.Errorf("Threads must be positive or -1, but is %d.", n)
	case n > cores:
		return 0, fmt.Errorf("%d threads requested, but your system only has "+
			"%d cores. If you want wakefield to use the maximum number of "+
			"threads, set Threads=-1.", n, cores)
	}

	runtime.GOMAXPROCS(n)
	return n, nil
}
