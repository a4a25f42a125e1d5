package lib

/* run.go contains the core loops of wakefield's "track" and "wake" modes. */

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/phil-mansfield/wakefield/lib/particles"
	"github.com/phil-mansfield/wakefield/lib/wake"
)

// RunTracking applies e to b args.Turns times. firstTurn is the turn b was
// taken on and the returned int is the turn of the final bunch. The bunch's
// statistics are logged at the end and, if Verbose is set, after every turn.
func RunTracking(
	args *Args, e *wake.Engine, b *particles.Bunch, firstTurn int,
) (int, error) {
	start := time.Now()

	turn := firstTurn
	if err := writeSnapshot(args, b, turn); err != nil { return turn, err }
	for i := 0; i < args.Turns; i++ {
		if err := e.Track(b); err != nil { return turn, err }
		turn++

		if err := writeSnapshot(args, b, turn); err != nil {
			return turn, err
		}

		if args.Raw.Tracking.Verbose {
			if err := logStatistics(Log.Debug(), b, turn); err != nil {
				return turn, err
			}
		}
	}

	Log.Info().
		Int("turns", args.Turns).
		Str("mode", args.RunMode.String()).
		Dur("elapsed", time.Since(start)).
		Msg("Finished tracking.")
	return turn, logStatistics(Log.Info(), b, turn)
}

// writeSnapshot writes b if turn is one of args.SnapshotTurns.
func writeSnapshot(args *Args, b *particles.Bunch, turn int) error {
	if !args.SnapshotTurns[turn] { return nil }

	fname := args.SnapshotFile.File(turn)
	if err := WriteBunch(fname, b, turn); err != nil {
		return fmt.Errorf("Could not write the snapshot '%s': %s",
			fname, err.Error())
	}
	Log.Debug().Int("turn", turn).Str("file", fname).Msg("Wrote snapshot.")
	return nil
}

func logStatistics(ev *zerolog.Event, b *particles.Bunch, turn int) error {
	s, err := b.ComputeStatistics()
	if err != nil { return err }

	ev.Int("turn", turn).
		Int("particles", s.N).
		Float64("mean_x", s.MeanX).
		Float64("mean_y", s.MeanY).
		Float64("mean_px", s.MeanPX).
		Float64("mean_py", s.MeanPY).
		Float64("mean_pz", s.MeanPZ).
		Float64("sigma_z", s.SigmaZ).
		Float64("emittance_x", s.EmittanceX).
		Float64("emittance_y", s.EmittanceY).
		Msg("Bunch statistics.")
	return nil
}

// WakeTableNames are the column names of the table returned by WakeTable.
var WakeTableNames = []string{"z", "W_rw", "W_r", "W_z"}

// WakeTable evaluates each wake function of e at WakePoints evenly spaced
// separations from -WakeRange to 0.
func WakeTable(args *Args, e *wake.Engine) [][]float64 {
	n, zMax := args.Raw.Tracking.WakePoints, args.Raw.Tracking.WakeRange
	cols := make([][]float64, len(WakeTableNames))
	for i := range cols { cols[i] = make([]float64, n) }

	for i := 0; i < n; i++ {
		z := -zMax
		if n > 1 { z += zMax * float64(i) / float64(n - 1) }

		cols[0][i] = z
		cols[1][i] = e.WakeResistiveWall(z)
		cols[2][i] = e.WakeResonatorR(z)
		cols[3][i] = e.WakeResonatorZ(z)
	}

	return cols
}
