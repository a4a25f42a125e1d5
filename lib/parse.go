package lib

/* parse.go contains functions for reading wakefield's command line and config
files. */

import (
	"fmt"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/wakefield/lib/format"
	"github.com/phil-mansfield/wakefield/lib/particles"
	"github.com/phil-mansfield/wakefield/lib/physics"
	"github.com/phil-mansfield/wakefield/lib/wake"
)

const ExampleConfigFile = `# All units are SI.

[Wake]

#######################
# Required Parameters #
#######################

# Shunt impedance (Ohm/m for the transverse mode, Ohm for the longitudinal
# mode), resonant frequency (Hz), and quality factor of the two resonators.
# Quality factors must be larger than 0.5.
TransverseShuntImpedance = 1e6
TransverseFrequency = 1e9
TransverseQ = 1
LongitudinalShuntImpedance = 1e5
LongitudinalFrequency = 1e9
LongitudinalQ = 1

#######################
# Optional Parameters #
#######################

# Resistive wall wake, W(z) = ResistiveWallAmplitude/sqrt(|z|). Either give
# the amplitude directly or give the pipe's radius, conductivity and length.
# Default is no resistive wall.
# ResistiveWallAmplitude = 0
# PipeRadius = 0.02
# PipeConductivity = 5.8e7
# PipeLength = 1

# Floor on |z| used by the resistive wall wake. Default is 1e-12.
# MinSeparation = 1e-12

# Add each particle's own longitudinal wake (the beam loading self term).
# BeamLoading = false

# Let particles at exactly the same z kick each other with half of the
# longitudinal resonator wake. By default only particles strictly ahead
# contribute.
# CoincidentWake = false

[Beam]

# Species is one of proton, electron, or positron.
Species = proton
Gamma = 27.7
Intensity = 1e11
MacroParticles = 10000

# RMS widths and offsets of the Gaussian bunch.
SigmaX = 1e-3
SigmaY = 1e-3
SigmaZ = 0.1
# SigmaPX = 0
# SigmaPY = 0
# SigmaPZ = 0
# OffsetX = 0
# OffsetY = 0
# Seed = 0

# If set, the bunch is read from this snapshot instead of being generated.
# Input = path/to/snapshot

# If non-zero, replaces -r0 N / (n beta^2 gamma) as the kick multiplier.
# KickFactor = 0

[Tracking]

# Number of times the wake is applied. Default is 1.
# Turns = 1
# Number of longitudinal slices, either 0 or at least 3. 0 sums over every
# pair of particles.
# Slices = 0
# Number of threads. -1 uses every core.
# Threads = -1
# If set, the final bunch is written to this file. Files ending in .txt or
# .dat are written as text tables, everything else as snapshots. Input files
# follow the same convention.
# Output = path/to/snapshot
# Snapshots of the bunch can also be written on intermediate turns.
# SnapshotTurns is a sequence like "0..100 - 50 + 200" and SnapshotFile
# names the files, with {%04d,turn} replaced by the turn.
# SnapshotTurns = 0..10
# SnapshotFile = out/bunch_{%04d,turn}.snap
# Log timings and statistics after every turn.
# Verbose = false

# Range and resolution of the table printed in "wake" mode.
# WakeRange = 1
# WakePoints = 100`

// WakeSection is the [Wake] section of a config file.
type WakeSection struct {
	TransverseShuntImpedance, TransverseFrequency, TransverseQ float64
	LongitudinalShuntImpedance, LongitudinalFrequency, LongitudinalQ float64

	ResistiveWallAmplitude float64
	PipeRadius, PipeConductivity, PipeLength float64
	MinSeparation float64
	BeamLoading, CoincidentWake bool
}

// BeamSection is the [Beam] section of a config file.
type BeamSection struct {
	Species string
	Gamma, Intensity float64
	MacroParticles int

	SigmaX, SigmaY, SigmaZ, SigmaPX, SigmaPY, SigmaPZ float64
	OffsetX, OffsetY float64
	Seed int64

	Input string
	KickFactor float64
}

// TrackingSection is the [Tracking] section of a config file.
type TrackingSection struct {
	Turns, Slices, Threads int
	Output string
	SnapshotTurns, SnapshotFile string
	Verbose bool

	WakeRange float64
	WakePoints int
}

// RawArgs stores the unprocessed values which the user assigned to each config
// variable.
type RawArgs struct {
	Wake WakeSection
	Beam BeamSection
	Tracking TrackingSection
}

// DefaultRawArgs returns a RawArgs holding the default value of every
// optional variable.
func DefaultRawArgs() *RawArgs {
	return &RawArgs{
		Wake: WakeSection{ MinSeparation: wake.DefaultMinSeparation },
		Beam: BeamSection{ Species: "proton" },
		Tracking: TrackingSection{
			Turns: 1, Threads: -1, WakeRange: 1, WakePoints: 100,
		},
	}
}

// Args stores configuration information. It is a post-processed version of
// RawArgs.
type Args struct {
	Raw *RawArgs

	Threads int
	Turns int
	RunMode RunMode
	Slices int

	Species physics.Species
	Scaling physics.Scaling
	Bunch particles.GaussianConfig
	ResistiveWall float64

	Input, Output string
	// SnapshotTurns is a set of the turns on which SnapshotFile is written.
	SnapshotTurns map[int]bool
	SnapshotFile *format.FileFormat
}

// ParseCommandLine parses the command line arguments and returns the mode
// wakefield is being run in, the name of the config file, and any variables
// which were set as a string in config file format. Expects that the
// arguments are presented in the order:
// $ wakefield <mode> <config file> [--<Section>.<Var1> <Value1>] ...
// The "help" mode doesn't need a config file.
func ParseCommandLine(argv []string) (mode, configFile, overrides string, err error) {
	if len(argv) == 0 {
		return "", "", "", fmt.Errorf("No mode was given. Run " +
			"'wakefield help' for usage.")
	}
	mode = argv[0]
	if mode == "help" { return mode, "", "", nil }

	if len(argv) < 2 {
		return "", "", "", fmt.Errorf("No config file was given for mode '%s'.",
			mode)
	}
	configFile = argv[1]

	rest := argv[2:]
	if len(rest) % 2 != 0 {
		return "", "", "", fmt.Errorf("The argument '%s' has no value.",
			rest[len(rest)-1])
	}

	sb := &strings.Builder{ }
	for i := 0; i < len(rest); i += 2 {
		flag, value := rest[i], rest[i+1]
		if !strings.HasPrefix(flag, "--") {
			return "", "", "", fmt.Errorf("Expected an argument of the form "+
				"--<Section>.<Var>, but got '%s'.", flag)
		}
		tok := strings.SplitN(strings.TrimPrefix(flag, "--"), ".", 2)
		if len(tok) != 2 || tok[0] == "" || tok[1] == "" {
			return "", "", "", fmt.Errorf("Expected an argument of the form "+
				"--<Section>.<Var>, but got '%s'.", flag)
		}
		fmt.Fprintf(sb, "[%s]\n%s = %s\n", tok[0], tok[1], value)
	}

	return mode, configFile, sb.String(), nil
}

// ParseConfigFile parses arguements from a config file. Variables which the
// file doesn't set keep their default values.
func ParseConfigFile(fileName string) (*RawArgs, error) {
	args := DefaultRawArgs()
	if err := gcfg.ReadFileInto(args, fileName); err != nil {
		return nil, err
	}
	return args, nil
}

// ParseConfigString is ParseConfigFile for a config held in memory.
func ParseConfigString(config string) (*RawArgs, error) {
	args := DefaultRawArgs()
	if err := gcfg.ReadStringInto(args, config); err != nil {
		return nil, err
	}
	return args, nil
}

// Overwrite overwrites arguments in args with the variables set in
// overrides, which uses config file syntax.
func (args *RawArgs) Overwrite(overrides string) error {
	if overrides == "" { return nil }
	return gcfg.ReadStringInto(args, overrides)
}

// Process converts the raw user input to a format which is more useful for
// internal functions. Very simple validation will be done here, but nothing
// which requires interacting with external files or building an Engine.
func (args *RawArgs) Process() (*Args, error) {
	out := &Args{
		Raw: args,
		Threads: args.Tracking.Threads,
		Turns: args.Tracking.Turns,
		Slices: args.Tracking.Slices,
		Input: args.Beam.Input,
		Output: args.Tracking.Output,
	}

	// Negative values are left for the Engine to reject.
	if out.Slices != 0 {
		out.RunMode = SlicedMode
	} else {
		out.RunMode = DirectMode
	}

	species, err := physics.LookupSpecies(strings.ToLower(args.Beam.Species))
	if err != nil { return nil, err }
	out.Species = species

	b := &args.Beam
	out.Scaling = physics.Scaling{
		ClassicalRadius: species.Radius, Intensity: b.Intensity,
		Gamma: b.Gamma, Override: b.KickFactor,
	}

	if b.Seed < 0 {
		return nil, fmt.Errorf("Seed must be non-negative, but is %d.", b.Seed)
	}
	out.Bunch = particles.GaussianConfig{
		N: b.MacroParticles,
		SigmaX: b.SigmaX, SigmaPX: b.SigmaPX,
		SigmaY: b.SigmaY, SigmaPY: b.SigmaPY,
		SigmaZ: b.SigmaZ, SigmaPZ: b.SigmaPZ,
		OffsetX: b.OffsetX, OffsetY: b.OffsetY,
		Gamma: b.Gamma, Intensity: b.Intensity,
		Mass: species.Mass, ParticleCharge: physics.ElementaryCharge,
		Seed: uint64(b.Seed),
	}

	w := &args.Wake
	out.ResistiveWall = w.ResistiveWallAmplitude
	if w.PipeRadius != 0 || w.PipeConductivity != 0 || w.PipeLength != 0 {
		if w.ResistiveWallAmplitude != 0 {
			return nil, fmt.Errorf("Both ResistiveWallAmplitude and the " +
				"pipe properties were set. Only one can be used.")
		}
		out.ResistiveWall = physics.ResistiveWallAmplitude(
			w.PipeRadius, w.PipeConductivity, w.PipeLength,
		)
		if out.ResistiveWall == 0 {
			return nil, fmt.Errorf("PipeRadius, PipeConductivity, and " +
				"PipeLength must all be positive if any are set.")
		}
	}

	if err := out.processSnapshots(); err != nil { return nil, err }

	return out, nil
}

func (args *Args) processSnapshots() error {
	t := &args.Raw.Tracking
	turns, err := format.ExpandTurnFormat(t.SnapshotTurns)
	if err != nil { return err }

	args.SnapshotTurns = map[int]bool{ }
	for _, turn := range turns { args.SnapshotTurns[turn] = true }
	if len(turns) == 0 { return nil }

	if t.SnapshotFile == "" {
		return fmt.Errorf("SnapshotTurns is set, but SnapshotFile isn't.")
	}
	args.SnapshotFile, err = format.ParseFileFormat(t.SnapshotFile)
	if err != nil { return err }
	if len(turns) > 1 && !args.SnapshotFile.HasVariables() {
		return fmt.Errorf("SnapshotFile, '%s', needs a {%%d,turn} variable "+
			"for multiple snapshots to be written.", t.SnapshotFile)
	}
	return nil
}

// EngineOptions returns the wake.Options described by args.
func (args *Args) EngineOptions() []wake.Option {
	opts := []wake.Option{
		wake.WithResistiveWall(args.ResistiveWall),
		wake.WithMinSeparation(args.Raw.Wake.MinSeparation),
		wake.WithBeamLoading(args.Raw.Wake.BeamLoading),
		wake.WithCoincidentWake(args.Raw.Wake.CoincidentWake),
		wake.WithScaling(args.Scaling),
		wake.WithWorkers(args.Threads),
	}
	if args.RunMode == SlicedMode {
		opts = append(opts, wake.WithSlices(args.Slices))
	}
	return opts
}

// NewEngine creates the wake.Engine described by args. Additional options
// are applied after the ones from the config file.
func (args *Args) NewEngine(opts ...wake.Option) (*wake.Engine, error) {
	w := &args.Raw.Wake
	return wake.New(
		w.TransverseShuntImpedance, w.TransverseFrequency, w.TransverseQ,
		w.LongitudinalShuntImpedance, w.LongitudinalFrequency, w.LongitudinalQ,
		append(args.EngineOptions(), opts...)...,
	)
}
