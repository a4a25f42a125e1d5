package lib

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/wakefield/lib/eq"
)

func TestRunTracking(t *testing.T) {
	buf := &bytes.Buffer{ }
	Log = newLogger(buf, true)
	defer func() { Log = NewLogger(false) }()

	args := processConfig(t, ExampleConfigFile + "\n[Beam]\n" +
		"MacroParticles = 200\nOffsetX = 1e-3\n" +
		"[Tracking]\nTurns = 3\nVerbose = true\n")
	e, err := args.NewEngine()
	require.NoError(t, err)

	b, turn, err := CollectParticles(args)
	require.NoError(t, err)
	ref, _, err := CollectParticles(args)
	require.NoError(t, err)

	last, err := RunTracking(args, e, b, turn + 2)
	require.NoError(t, err)
	assert.Equal(t, 5, last)
	assert.Contains(t, buf.String(), "Bunch statistics.")
	assert.Contains(t, buf.String(), "Finished tracking.")

	// Tracking is reproducible and only touches momenta.
	for i := 0; i < 3; i++ { require.NoError(t, e.Track(ref)) }
	assert.NoError(t, eq.Bunches(ref, b, 0))
	kicked := false
	for _, px := range b.PX { kicked = kicked || px != 0 }
	assert.True(t, kicked)
}

func TestRunTrackingZeroTurns(t *testing.T) {
	Log = newLogger(&bytes.Buffer{ }, false)
	defer func() { Log = NewLogger(false) }()

	args := processConfig(t, ExampleConfigFile +
		"\n[Beam]\nMacroParticles = 10\n[Tracking]\nTurns = 0\n")
	e, err := args.NewEngine()
	require.NoError(t, err)
	b, _, err := CollectParticles(args)
	require.NoError(t, err)

	last, err := RunTracking(args, e, b, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, last)
	assert.Equal(t, make([]float64, 10), b.PX)
}

func TestWakeTable(t *testing.T) {
	args := processConfig(t, ExampleConfigFile +
		"\n[Wake]\nResistiveWallAmplitude = -1\n" +
		"[Tracking]\nWakeRange = 0.5\nWakePoints = 11\n")
	e, err := args.NewEngine()
	require.NoError(t, err)

	cols := WakeTable(args, e)
	require.Len(t, cols, len(WakeTableNames))
	for _, col := range cols { require.Len(t, col, 11) }

	assert.Equal(t, -0.5, cols[0][0])
	assert.Equal(t, 0.0, cols[0][10])
	assert.InDelta(t, -0.25, cols[0][5], 1e-15)

	for i, z := range cols[0] {
		assert.Equal(t, e.WakeResistiveWall(z), cols[1][i])
		assert.Equal(t, e.WakeResonatorR(z), cols[2][i])
		assert.Equal(t, e.WakeResonatorZ(z), cols[3][i])
	}
	lz := e.Longitudinal()
	assert.Equal(t, lz.Rs*lz.Omega/lz.Q/2, cols[3][10])
}

func TestRunTrackingSnapshots(t *testing.T) {
	Log = newLogger(&bytes.Buffer{ }, false)
	defer func() { Log = NewLogger(false) }()

	dir := t.TempDir()
	args := processConfig(t, ExampleConfigFile +
		"\n[Beam]\nMacroParticles = 30\n[Tracking]\nTurns = 4\n" +
		"SnapshotTurns = 0..4 - 1\nSnapshotFile = " + dir +
		"/bunch_{%02d,turn}.snap\n")
	e, err := args.NewEngine()
	require.NoError(t, err)
	b, _, err := CollectParticles(args)
	require.NoError(t, err)
	initial, _, err := CollectParticles(args)
	require.NoError(t, err)

	_, err = RunTracking(args, e, b, 0)
	require.NoError(t, err)

	for _, turn := range []int{0, 2, 3, 4} {
		fname := filepath.Join(dir, fmt.Sprintf("bunch_%02d.snap", turn))
		snap, snapTurn, err := ReadBunch(fname, args)
		require.NoError(t, err, "turn %d", turn)
		assert.Equal(t, turn, snapTurn)
		if turn == 0 {
			assert.NoError(t, eq.Bunches(initial, snap, 0))
		}
		if turn == 4 {
			assert.NoError(t, eq.Bunches(b, snap, 0))
		}
	}
	_, err = os.Stat(filepath.Join(dir, "bunch_01.snap"))
	assert.True(t, os.IsNotExist(err))
}
