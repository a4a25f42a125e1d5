package main

import (
	"fmt"
	"os"

	"github.com/phil-mansfield/wakefield/lib"
	"github.com/phil-mansfield/wakefield/lib/catio"
	"github.com/phil-mansfield/wakefield/lib/eq"
	"github.com/phil-mansfield/wakefield/lib/wake"
)

// confirmTolerance is the relative tolerance used by "confirm" mode.
const confirmTolerance = 1e-12

func main() {
	// Parse arguements.
	mode, configFile, cmdArgs, err := lib.ParseCommandLine(os.Args[1:])
	if err != nil { lib.ExternalErrorf("%s", err.Error()) }

	if mode == "help" {
		PrintHelp()
		return
	}

	rawArgs, err := lib.ParseConfigFile(configFile)
	if err != nil {
		lib.ExternalErrorf("Could not parse the config file '%s': %s",
			configFile, err.Error())
	}
	if err := rawArgs.Overwrite(cmdArgs); err != nil {
		lib.ExternalErrorf("Could not parse the command line arguments: %s",
			err.Error())
	}

	// Do processing that doesn't need external validation.
	args, err := rawArgs.Process()
	if err != nil { lib.ExternalErrorf("%s", err.Error()) }
	lib.SetLogger(lib.NewLogger(rawArgs.Tracking.Verbose))

	// Run the chosen mode.
	switch mode {
	case "check":
		Check(args)
	case "track":
		Track(args)
	case "wake":
		Wake(args)
	case "confirm":
		Confirm(args)
	default:
		lib.ExternalErrorf(
			"You attempted to run wakefield in the mode '%s', but the only " +
				"valid modes are 'help', 'check', 'track', 'wake', and " +
				"'confirm'.", mode,
		)
	}
}

// PrintHelp prints usage information and an example config file.
func PrintHelp() {
	fmt.Printf(`wakefield applies resistive wall and resonator wakes to a bunch.

Usage:
    wakefield help
    wakefield <mode> <config file> [--<Section>.<Var> <Value>] ...

Modes:
    check    Check the config file for errors.
    track    Track the bunch and write it to Output.
    wake     Print a table of the wake functions to stdout.
    confirm  Track the bunch and check that it matches Output.

Example config file:

%s
`, lib.ExampleConfigFile)
}

// Check runs wakefield's "check" mode which tests for errors in the
// configuration arguments.
func Check(args *lib.Args) {
	if lib.Check(args, lib.WarnOnError) {
		fmt.Println("No errors detected.")
	} else {
		os.Exit(1)
	}
}

// setup does the work shared by every mode that builds an Engine.
func setup(args *lib.Args) *wake.Engine {
	lib.Check(args, lib.CrashOnError)

	threads, err := lib.SetThreads(args.Threads)
	if err != nil { lib.ExternalErrorf("%s", err.Error()) }

	e, err := args.NewEngine(wake.WithWorkers(threads),
		wake.WithLogger(lib.Log))
	if err != nil { lib.ExternalErrorf("%s", err.Error()) }

	lib.Log.Info().
		Str("version", lib.Version).
		Int("threads", threads).
		Str("mode", args.RunMode.String()).
		Float64("resistive_wall", args.ResistiveWall).
		Msg("Created wake engine.")

	return e
}

// Track runs wakefield's "track" mode, which applies the wake to a bunch for
// a number of turns and writes the final bunch to Output.
func Track(args *lib.Args) {
	e := setup(args)

	b, turn, err := lib.CollectParticles(args)
	if err != nil { lib.ExternalErrorf("%s", err.Error()) }

	turn, err = lib.RunTracking(args, e, b, turn)
	if err != nil { lib.ReportError(err) }

	if args.Output != "" {
		if err := lib.WriteBunch(args.Output, b, turn); err != nil {
			lib.ExternalErrorf("Could not write the bunch to '%s': %s",
				args.Output, err.Error())
		}
		lib.Log.Info().Str("file", args.Output).Msg("Wrote bunch.")
	}
}

// Wake runs wakefield's "wake" mode, which prints the wake functions as a
// text table.
func Wake(args *lib.Args) {
	e := setup(args)
	cols := lib.WakeTable(args, e)
	if err := catio.WriteText(os.Stdout, lib.WakeTableNames, cols); err != nil {
		lib.ExternalErrorf("%s", err.Error())
	}
}

// Confirm runs wakefield's "confirm" mode, which re-runs tracking and checks
// that the result matches the bunch stored in Output.
func Confirm(args *lib.Args) {
	if args.Output == "" {
		lib.ExternalErrorf("'confirm' mode requires Output to be set.")
	}
	e := setup(args)

	// Only Output is compared, so don't overwrite any snapshots.
	args.SnapshotTurns = map[int]bool{ }

	stored, storedTurn, err := lib.ReadBunch(args.Output, args)
	if err != nil { lib.ExternalErrorf("%s", err.Error()) }

	b, turn, err := lib.CollectParticles(args)
	if err != nil { lib.ExternalErrorf("%s", err.Error()) }
	turn, err = lib.RunTracking(args, e, b, turn)
	if err != nil { lib.ReportError(err) }

	if !lib.IsTextFile(args.Output) && storedTurn != turn {
		lib.ExternalErrorf("'%s' was written on turn %d, but tracking ended "+
			"on turn %d.", args.Output, storedTurn, turn)
	}
	if err := eq.Bunches(stored, b, confirmTolerance); err != nil {
		lib.ExternalErrorf("'%s' does not match the tracked bunch: %s",
			args.Output, err.Error())
	}

	fmt.Println("No errors detected.")
}
