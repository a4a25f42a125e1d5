/*package snapio reads and writes bunch snapshot files. A snapshot stores the
beam-level parameters of a particles.Bunch followed by each of its columns,
compressed independently with zstd.
*/
package snapio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/DataDog/zstd"

	"github.com/phil-mansfield/wakefield/lib/particles"
)

const (
	// MagicNumber is an arbirary number at the start of all snapshot files
	// which should help identify when the code is run on somehting else by
	// accident.
	MagicNumber = 0x3a4ef1e1
	// ReverseMagicNumber is the magic number if read on a machine with
	// flipped endianness.
	ReverseMagicNumber = 0xe1f14e3a
	Version = 1

	// DefaultLevel is the zstd compression level used by WriteFile.
	DefaultLevel = 3
	// maxNameLen bounds column names so corrupted files fail quickly.
	maxNameLen = 64
)

// ErrNotSnapshot is wrapped by errors caused by reading something which isn't
// a snapshot file.
var ErrNotSnapshot = errors.New("not a snapshot file")

// Header contains the non-column information in a snapshot.
type Header struct {
	Version uint32
	// N is the number of macroparticles and Turn is the turn the snapshot was
	// taken on.
	N, Turn int64
	Gamma, Intensity, Mass, ParticleCharge float64
	// Names gives the names of the columns in the order they are stored.
	Names []string
}

// fixedHeader is the part of Header with a fixed binary size.
type fixedHeader struct {
	N, Turn int64
	Gamma, Intensity, Mass, ParticleCharge float64
	NFields int64
}

// Write writes the bunch to wr as a snapshot taken on the given turn. Each
// column is compressed with the given zstd level.
func Write(wr io.Writer, b *particles.Bunch, turn int, level int) error {
	if err := b.Validate(); err != nil { return err }
	order := binary.LittleEndian

	fields := b.Fields()
	hd := fixedHeader{
		int64(b.Len()), int64(turn),
		b.Gamma, b.Intensity, b.Mass, b.ParticleCharge,
		int64(len(fields)),
	}

	err := binary.Write(wr, order, uint32(MagicNumber))
	if err != nil { return err }
	err = binary.Write(wr, order, uint32(Version))
	if err != nil { return err }
	err = binary.Write(wr, order, hd)
	if err != nil { return err }

	raw := &bytes.Buffer{ }
	var buf []byte
	for _, f := range fields {
		buf = buf[:0]
		if f.Len() > 0 {
			raw.Reset()
			err = binary.Write(raw, order, f.Data())
			if err != nil { return err }

			buf, err = zstd.CompressLevel(buf, raw.Bytes(), level)
			if err != nil { return err }
		}

		err = writeName(wr, order, f.Name())
		if err != nil { return err }
		err = binary.Write(wr, order, int64(len(buf)))
		if err != nil { return err }
		_, err = wr.Write(buf)
		if err != nil { return err }
	}

	return nil
}

// Read reads a snapshot from rd. Columns which the current Bunch doesn't know
// about are skipped.
func Read(rd io.Reader) (*Header, *particles.Bunch, error) {
	magic := uint32(0)
	err := binary.Read(rd, binary.LittleEndian, &magic)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: could not read magic number: %s",
			ErrNotSnapshot, err.Error())
	}

	var order binary.ByteOrder
	switch magic {
	case MagicNumber: order = binary.LittleEndian
	case ReverseMagicNumber: order = binary.BigEndian
	default:
		return nil, nil, fmt.Errorf("%w: magic number is 0x%x, not 0x%x.",
			ErrNotSnapshot, magic, MagicNumber)
	}

	hd := &Header{ }
	err = binary.Read(rd, order, &hd.Version)
	if err != nil { return nil, nil, err }
	if hd.Version != Version {
		return nil, nil, fmt.Errorf("Snapshot has version %d, but this code "+
			"only reads version %d.", hd.Version, Version)
	}

	fixed := fixedHeader{ }
	err = binary.Read(rd, order, &fixed)
	if err != nil { return nil, nil, err }
	if fixed.N < 0 || fixed.NFields < 0 {
		return nil, nil, fmt.Errorf("%w: header gives %d particles and %d "+
			"fields.", ErrNotSnapshot, fixed.N, fixed.NFields)
	}
	hd.N, hd.Turn = fixed.N, fixed.Turn
	hd.Gamma, hd.Intensity = fixed.Gamma, fixed.Intensity
	hd.Mass, hd.ParticleCharge = fixed.Mass, fixed.ParticleCharge

	b := particles.NewBunch(int(hd.N))
	b.Gamma, b.Intensity = hd.Gamma, hd.Intensity
	b.Mass, b.ParticleCharge = hd.Mass, hd.ParticleCharge

	columns := map[string][]float64{ }
	for _, f := range b.Fields() { columns[f.Name()] = f.Data() }

	var buf, raw []byte
	for i := int64(0); i < fixed.NFields; i++ {
		name, err := readName(rd, order)
		if err != nil { return nil, nil, err }
		hd.Names = append(hd.Names, name)

		nBuf := int64(0)
		err = binary.Read(rd, order, &nBuf)
		if err != nil { return nil, nil, err }
		if nBuf < 0 {
			return nil, nil, fmt.Errorf("%w: column '%s' has a compressed "+
				"size of %d bytes.", ErrNotSnapshot, name, nBuf)
		}

		buf = resizeBytes(buf, int(nBuf))
		_, err = io.ReadFull(rd, buf)
		if err != nil { return nil, nil, err }

		col, ok := columns[name]
		if !ok || (nBuf == 0 && len(col) == 0) { continue }

		raw, err = zstd.Decompress(raw[:0], buf)
		if err != nil { return nil, nil, err }
		if len(raw) != 8*len(col) {
			return nil, nil, fmt.Errorf("Column '%s' decompressed to %d "+
				"bytes, but %d particles need %d bytes.", name, len(raw),
				len(col), 8*len(col))
		}

		err = binary.Read(bytes.NewReader(raw), order, col)
		if err != nil { return nil, nil, err }
	}

	return hd, b, nil
}

// WriteFile writes a snapshot to the named file with DefaultLevel
// compression.
func WriteFile(fname string, b *particles.Bunch, turn int) error {
	f, err := os.Create(fname)
	if err != nil { return err }

	err = Write(f, b, turn, DefaultLevel)
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads a snapshot from the named file.
func ReadFile(fname string) (*Header, *particles.Bunch, error) {
	f, err := os.Open(fname)
	if err != nil { return nil, nil, err }
	defer f.Close()

	return Read(f)
}

func writeName(wr io.Writer, order binary.ByteOrder, name string) error {
	err := binary.Write(wr, order, int64(len(name)))
	if err != nil { return err }
	_, err = io.WriteString(wr, name)
	return err
}

func readName(rd io.Reader, order binary.ByteOrder) (string, error) {
	n := int64(0)
	err := binary.Read(rd, order, &n)
	if err != nil { return "", err }
	if n < 0 || n > maxNameLen {
		return "", fmt.Errorf("%w: column name has length %d.",
			ErrNotSnapshot, n)
	}

	b := make([]byte, n)
	_, err = io.ReadFull(rd, b)
	return string(b), err
}

// resizeBytes resizes a byte buffer to have the specified length.
func resizeBytes(b []byte, n int) []byte {
	if n > cap(b) {
		b = append(b[:cap(b)], make([]byte, n-cap(b))...)
	}
	return b[:n]
}
