package lib

/* check.go contains the core functions of wakefield's "check" mode. */

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Check runs the wakefield "check" command on the provided Args. This function
// will either crash upon encountering errors or will print warnings,
// depending on strictness. If Check completes, it returns true if all tests
// passed and false otherwise.
func Check(args *Args, strictness CheckStrictness) bool {
	errs := CheckErrors(args)
	if len(errs) == 0 { return true }

	if strictness == CrashOnError {
		ExternalErrorf("%s", errs[0].Error())
	}
	for _, err := range errs {
		Log.Warn().Msg(err.Error())
	}
	return false
}

// CheckErrors returns every problem with args which can be detected without
// running the simulation.
func CheckErrors(args *Args) []error {
	errs := []error{ }
	raw := args.Raw

	if _, err := args.NewEngine(); err != nil {
		errs = append(errs, err)
	}

	if args.Turns < 0 {
		errs = append(errs, fmt.Errorf("Turns must be non-negative, but "+
			"is %d.", args.Turns))
	}
	if args.Threads != -1 && (args.Threads <= 0 ||
		args.Threads > runtime.NumCPU()) {
		errs = append(errs, fmt.Errorf("Threads is set to %d, but must be "+
			"-1 or between 1 and the number of cores, %d.",
			args.Threads, runtime.NumCPU()))
	}

	if raw.Beam.KickFactor == 0 {
		if raw.Beam.Gamma <= 1 {
			errs = append(errs, fmt.Errorf("Gamma must be larger than 1 "+
				"unless KickFactor is set, but is %g.", raw.Beam.Gamma))
		}
		if raw.Beam.Intensity <= 0 {
			errs = append(errs, fmt.Errorf("Intensity must be positive "+
				"unless KickFactor is set, but is %g.", raw.Beam.Intensity))
		}
	}

	if args.Input == "" {
		errs = append(errs, checkGaussian(args)...)
	} else if _, err := os.Stat(args.Input); err != nil {
		errs = append(errs, fmt.Errorf("The Input file '%s' cannot be "+
			"accessed: %s", args.Input, err.Error()))
	}

	if args.Output != "" {
		dir := filepath.Dir(args.Output)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			errs = append(errs, fmt.Errorf("The directory of the Output "+
				"file, '%s', does not exist.", dir))
		}
	}

	if args.SnapshotFile != nil {
		for turn := range args.SnapshotTurns {
			dir := filepath.Dir(args.SnapshotFile.File(turn))
			if info, err := os.Stat(dir); err != nil || !info.IsDir() {
				errs = append(errs, fmt.Errorf("The directory of the "+
					"snapshot for turn %d, '%s', does not exist.", turn, dir))
				break
			}
		}
	}

	if !(raw.Tracking.WakeRange > 0) {
		errs = append(errs, fmt.Errorf("WakeRange must be positive, but "+
			"is %g.", raw.Tracking.WakeRange))
	}
	if raw.Tracking.WakePoints < 2 {
		errs = append(errs, fmt.Errorf("WakePoints must be at least 2, but "+
			"is %d.", raw.Tracking.WakePoints))
	}

	return errs
}

func checkGaussian(args *Args) []error {
	errs := []error{ }
	b := &args.Bunch
	if b.N <= 0 {
		errs = append(errs, fmt.Errorf("MacroParticles must be positive "+
			"if no Input file is given, but is %d.", b.N))
	}

	sigmas := []struct{
		name string
		x float64
	}{
		{"SigmaX", b.SigmaX}, {"SigmaY", b.SigmaY}, {"SigmaZ", b.SigmaZ},
		{"SigmaPX", b.SigmaPX}, {"SigmaPY", b.SigmaPY}, {"SigmaPZ", b.SigmaPZ},
	}
	for _, s := range sigmas {
		if s.x < 0 {
			errs = append(errs, fmt.Errorf("%s must be non-negative, but "+
				"is %g.", s.name, s.x))
		}
	}

	return errs
}
