/*package catio reads whitespace-separated text tables of particle data, e.g.
the output of another tracking code.
*/
package catio

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
)

// TextConfig contains information neccessary for parsing text tables.
type TextConfig struct {
	Separator byte // Character used to separated fields. ' ' also matches tabs.
	Comment byte // Character used to start comments.
	SkipLines int // Number of lines to skip at the start of file.
	ColumnNames map[string]int // Map from column names to column indices.
}

// DefaultConfig is a TextConfig instance which can read tables written by
// WriteText.
var DefaultConfig = TextConfig{
	Separator: ' ',
	Comment: '#',
	SkipLines: 0,
	ColumnNames: map[string]int{
		"z": 0, "x": 1, "y": 2, "px": 3, "py": 4, "pz": 5, "charge": 6,
	},
}

// Reader allows the user to access the columns of a text table.
type Reader struct {
	config TextConfig
	lines [][][]byte
	lineNums []int
}

// TextFile creates a Reader for a text file.
func TextFile(fname string, config ...TextConfig) (*Reader, error) {
	text, err := os.ReadFile(fname)
	if err != nil { return nil, err }
	return Text(text, config...), nil
}

// Text creates a Reader for a block of text.
func Text(text []byte, config ...TextConfig) *Reader {
	r := &Reader{ config: DefaultConfig }
	if len(config) > 0 { r.config = config[0] }

	lines := bytes.Split(text, []byte{'\n'})
	for i, line := range lines {
		if i < r.config.SkipLines { continue }
		if idx := bytes.IndexByte(line, r.config.Comment); idx >= 0 {
			line = line[:idx]
		}

		var tok [][]byte
		if r.config.Separator == ' ' {
			tok = bytes.Fields(line)
		} else {
			line = bytes.TrimSpace(line)
			if len(line) == 0 { continue }
			tok = bytes.Split(line, []byte{r.config.Separator})
		}
		if len(tok) == 0 { continue }

		r.lines = append(r.lines, tok)
		r.lineNums = append(r.lineNums, i + 1)
	}

	return r
}

// Lines returns the number of non-empty, non-comment lines in the table.
func (r *Reader) Lines() int { return len(r.lines) }

// Columns returns the smallest and largest number of columns on any line of
// the table. Both are 0 for an empty table.
func (r *Reader) Columns() (min, max int) {
	for i, tok := range r.lines {
		if i == 0 || len(tok) < min { min = len(tok) }
		if len(tok) > max { max = len(tok) }
	}
	return min, max
}

// ColumnIndices converts column names into integer indices.
func (r *Reader) ColumnIndices(names []string) ([]int, error) {
	idxs := make([]int, len(names))
	for i := range names {
		idx, ok := r.config.ColumnNames[names[i]]
		if !ok {
			return nil, fmt.Errorf("The column '%s' is not in the table's " +
				"column names.", names[i])
		}
		idxs[i] = idx
	}
	return idxs, nil
}

// ReadFloat64s reads the specified columns from every line of the table.
// Optional buffers may be provided if you're worried about allocation.
func (r *Reader) ReadFloat64s(
	columns []int, bufs ...[][]float64,
) ([][]float64, error) {
	out := make([][]float64, len(columns))
	if len(bufs) > 0 && len(bufs[0]) == len(columns) { out = bufs[0] }
	for j := range out {
		if cap(out[j]) >= len(r.lines) {
			out[j] = out[j][:len(r.lines)]
		} else {
			out[j] = make([]float64, len(r.lines))
		}
	}

	for i, tok := range r.lines {
		for j, col := range columns {
			if col < 0 || col >= len(tok) {
				return nil, fmt.Errorf("Line %d has %d columns, but column " +
					"%d was requested.", r.lineNums[i], len(tok), col)
			}
			x, err := strconv.ParseFloat(string(tok[col]), 64)
			if err != nil {
				return nil, fmt.Errorf("Could not parse column %d of line " +
					"%d: %s", col, r.lineNums[i], err.Error())
			}
			out[j][i] = x
		}
	}

	return out, nil
}

// WriteText writes columns as a table which DefaultConfig can read. names
// are written as a comment header.
func WriteText(wr io.Writer, names []string, columns [][]float64) error {
	if len(names) != len(columns) {
		return fmt.Errorf("Given %d names for %d columns.",
			len(names), len(columns))
	}
	n := 0
	if len(columns) > 0 { n = len(columns[0]) }
	for j := range columns {
		if len(columns[j]) != n {
			return fmt.Errorf("Column '%s' has length %d, but column '%s' " +
				"has length %d.", names[j], len(columns[j]), names[0], n)
		}
	}

	buf := []byte{'#'}
	for _, name := range names {
		buf = append(buf, ' ')
		buf = append(buf, name...)
	}
	buf = append(buf, '\n')
	if _, err := wr.Write(buf); err != nil { return err }

	for i := 0; i < n; i++ {
		buf = buf[:0]
		for j := range columns {
			if j > 0 { buf = append(buf, ' ') }
			buf = strconv.AppendFloat(buf, columns[j][i], 'g', -1, 64)
		}
		buf = append(buf, '\n')
		if _, err := wr.Write(buf); err != nil { return err }
	}

	return nil
}
