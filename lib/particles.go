package lib

/* This file contains functions for collecting the initial bunch. */

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/phil-mansfield/wakefield/lib/catio"
	"github.com/phil-mansfield/wakefield/lib/particles"
	"github.com/phil-mansfield/wakefield/lib/snapio"
)

// IsTextFile returns true if fname names a text table rather than a snapshot.
func IsTextFile(fname string) bool {
	switch filepath.Ext(fname) {
	case ".txt", ".dat": return true
	}
	return false
}

// CollectParticles returns the initial bunch described by args and the turn
// it was taken on. If args.Input is set, the bunch is read from it, otherwise
// a Gaussian bunch is generated.
func CollectParticles(args *Args) (*particles.Bunch, int, error) {
	if args.Input == "" {
		b, err := particles.Gaussian(&args.Bunch)
		return b, 0, err
	}
	return ReadBunch(args.Input, args)
}

// ReadBunch reads a bunch from a snapshot or text table and returns it along
// with the turn it was written on. Text tables only hold columns, so their
// beam parameters and turn are taken from args.
func ReadBunch(fname string, args *Args) (*particles.Bunch, int, error) {
	if !IsTextFile(fname) {
		hd, b, err := snapio.ReadFile(fname)
		if err != nil {
			return nil, 0, fmt.Errorf("Could not read the snapshot '%s': %s",
				fname, err.Error())
		}
		return b, int(hd.Turn), nil
	}

	b, err := ReadTextBunch(fname)
	if err != nil { return nil, 0, err }
	b.Gamma, b.Intensity = args.Bunch.Gamma, args.Bunch.Intensity
	b.Mass, b.ParticleCharge = args.Bunch.Mass, args.Bunch.ParticleCharge
	return b, 0, nil
}

// ReadTextBunch reads the columns of a bunch from a text table with the
// columns z, x, y, px, py, pz, and (optionally) charge. Tables with exactly
// six columns on every line give every particle charge 1/N. Any other table
// which cannot be read returns an error.
func ReadTextBunch(fname string) (*particles.Bunch, error) {
	rd, err := catio.TextFile(fname)
	if err != nil { return nil, err }

	names := []string{"z", "x", "y", "px", "py", "pz", "charge"}
	idx, err := rd.ColumnIndices(names)
	if err != nil { return nil, err }

	cols, err := rd.ReadFloat64s(idx)
	if err != nil {
		// Only tables with exactly six columns on every line lack charges.
		nCharge := len(idx) - 1
		if min, max := rd.Columns(); min != nCharge || max != nCharge {
			return nil, fmt.Errorf("Could not read the text table '%s': %s",
				fname, err.Error())
		}
		cols, err = rd.ReadFloat64s(idx[:nCharge])
		if err != nil {
			return nil, fmt.Errorf("Could not read the text table '%s': %s",
				fname, err.Error())
		}
		charge := make([]float64, rd.Lines())
		for i := range charge { charge[i] = 1 / float64(len(charge)) }
		cols = append(cols, charge)
	}

	b := particles.NewBunch(0)
	b.Z, b.X, b.Y = cols[0], cols[1], cols[2]
	b.PX, b.PY, b.PZ = cols[3], cols[4], cols[5]
	b.Charge = cols[6]
	return b, nil
}

// WriteTextBunch writes the columns of a bunch as a text table which
// ReadTextBunch can read.
func WriteTextBunch(fname string, b *particles.Bunch) error {
	f, err := os.Create(fname)
	if err != nil { return err }

	fields := b.Fields()
	names, cols := make([]string, len(fields)), make([][]float64, len(fields))
	for i := range fields {
		names[i], cols[i] = fields[i].Name(), fields[i].Data()
	}

	if err := catio.WriteText(f, names, cols); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteBunch writes b to fname, as a text table if fname has a text
// extension and as a snapshot otherwise.
func WriteBunch(fname string, b *particles.Bunch, turn int) error {
	if IsTextFile(fname) { return WriteTextBunch(fname, b) }
	return snapio.WriteFile(fname, b, turn)
}
