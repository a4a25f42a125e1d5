/*package format handles wakefield's miniature formatting languages for
choosing which turns are written to disk and what the files are called, e.g:

   SnapshotTurns = 0..100 - 63 + 500
   SnapshotFile = out/bunch_{%04d,turn}.snap

Turn sequences consist of a series of tokens separated by "+" or "-". Each
token can be either a number or two numbers separted by "..". E.g.:

  100
  0..100
  0..10 + 100
  0..100 - 63 - 10..20

These strings build up sequences of numbers by adding/removing individual
numbers and contiguous sequences. 1, 2, 3, 15, 16, 17 could be written as
1..17 - 4..14. All spaces around "-" and "+" symbols are ignored.

File formats are a combination of fixed text and variables. Variables are
written as {verb,turn}, where "verb" is a printf() verb (e.g. %04d) that
specifies how the turn should be printed.
*/
package format

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	// Any expanded sequence which would have more than BigNumber elements is
	// assumed to be a bug.
	BigNumber = 1<<20
)

// ExpandSequenceFormat expands a sequence format string into a sorted sequence
// of integers.
func ExpandSequenceFormat(format string) ([]int, error) {
	tok, err := tokeniseSequenceFormat(format)
	if err != nil { return nil, err }
	adds, subs, err := addsSubsSequenceFormat(tok)
	if err != nil { return nil, err }

	set := map[int]bool{ }
	for _, add := range adds {
		ns, err := parseSequenceFormatToken(add)
		if err != nil { return nil, err }
		if len(set) + len(ns) > BigNumber {
			return nil, fmt.Errorf("The sequence '%s' has more than %d "+
				"elements, which is almost certainly a bug.", format, BigNumber)
		}
		for _, n := range ns {
			if set[n] {
				return nil, fmt.Errorf("The number %d is added more than "+
					"once.", n)
			}
			set[n] = true
		}
	}

	for _, sub := range subs {
		ns, err := parseSequenceFormatToken(sub)
		if err != nil { return nil, err }
		for _, n := range ns {
			if !set[n] {
				return nil, fmt.Errorf("The number %d is removed without "+
					"having been added.", n)
			}
			delete(set, n)
		}
	}

	out := make([]int, 0, len(set))
	for n := range set { out = append(out, n) }
	sort.Ints(out)

	return out, nil
}

// tokeniseSequenceFormat splits a sequence format into numbers, ranges, and
// the operators between them.
func tokeniseSequenceFormat(format string) ([]string, error) {
	clean := strings.ReplaceAll(format, "+", " + ")
	clean = strings.ReplaceAll(clean, "-", " - ")

	tok := strings.Fields(clean)
	if len(tok) == 0 {
		return nil, fmt.Errorf("The sequence format is empty.")
	}
	return tok, nil
}

// addsSubsSequenceFormat sorts the numbers and ranges in tok into the ones
// which are added to the sequence and the ones which are removed from it.
func addsSubsSequenceFormat(tok []string) (adds, subs []string, err error) {
	if len(tok) == 0 {
		return nil, nil, fmt.Errorf("The sequence format is empty.")
	}

	adds, subs = []string{ }, []string{ }

	// The leading "+" may be dropped.
	start := 0
	if tok[0] != "+" && tok[0] != "-" {
		if err := isSequenceFormatToken(tok[0]); err != nil {
			return nil, nil, fmt.Errorf("Element number 1, '%s', cannot be "+
				"parsed because %s", tok[0], err.Error())
		}
		adds = append(adds, tok[0])
		start = 1
	}

	for i := start; i < len(tok); i += 2 {
		op := tok[i]
		if op != "+" && op != "-" {
			return nil, nil, fmt.Errorf("Element number %d, '%s', should be "+
				"a '-' or '+', but isn't.", i+1, op)
		} else if i + 1 >= len(tok) {
			return nil, nil, fmt.Errorf("The sequence format ends in a "+
				"trailing '%s'.", op)
		}

		val := tok[i+1]
		if err := isSequenceFormatToken(val); err != nil {
			return nil, nil, fmt.Errorf("Element number %d, '%s', cannot be "+
				"parsed because %s", i+2, val, err.Error())
		}

		if op == "+" {
			adds = append(adds, val)
		} else {
			subs = append(subs, val)
		}
	}

	return adds, subs, nil
}

// isSequenceFormatToken returns a nil error is tok is a valid number or range
// and an error describing the problem otherwise. The error message assumes it
// is printed after a trailing "because".
func isSequenceFormatToken(tok string) error {
	_, _, err := sequenceFormatBounds(tok)
	return err
}

// sequenceFormatBounds returns the first and last number in a token.
func sequenceFormatBounds(tok string) (start, end int, err error) {
	if len(tok) == 0 {
		return 0, 0, fmt.Errorf("it is empty.")
	}

	bounds := strings.Split(tok, "..")
	if len(bounds) > 2 {
		return 0, 0, fmt.Errorf("it has more than one '..'.")
	}

	start, err = strconv.Atoi(bounds[0])
	if err != nil {
		return 0, 0, fmt.Errorf("'%s' is not an integer.", bounds[0])
	}
	if len(bounds) == 1 { return start, start, nil }

	end, err = strconv.Atoi(bounds[1])
	if err != nil {
		return 0, 0, fmt.Errorf("'%s' is not an integer.", bounds[1])
	} else if end < start {
		return 0, 0, fmt.Errorf("lower bound %d is larger than upper "+
			"bound %d.", start, end)
	}
	return start, end, nil
}

// parseSequenceFormatToken returns the numbers in a single number or range.
func parseSequenceFormatToken(tok string) ([]int, error) {
	start, end, err := sequenceFormatBounds(tok)
	if err != nil {
		return nil, fmt.Errorf("'%s' cannot be parsed because %s",
			tok, err.Error())
	}
	if end - start >= BigNumber {
		return nil, fmt.Errorf("The range '%s' has more than %d elements, "+
			"which is almost certainly a bug.", tok, BigNumber)
	}

	out := make([]int, 0, end - start + 1)
	for n := start; n <= end; n++ { out = append(out, n) }
	return out, nil
}

// ExpandTurnFormat expands the format string specifying the turns on which
// snapshots are written. An empty string gives no turns.
func ExpandTurnFormat(format string) ([]int, error) {
	if strings.TrimSpace(format) == "" { return []int{ }, nil }

	turns, err := ExpandSequenceFormat(format)
	if err != nil {
		return nil, fmt.Errorf("The SnapshotTurns format string, '%s', is "+
			"not valid. %s", format, err.Error())
	}
	return turns, nil
}

// FileFormat is a parsed file format string.
type FileFormat struct {
	format string
	// Separators holds the fixed text between variables. It always has one
	// more element than Verbs.
	Separators []string
	// Verbs holds the printf() verb of each variable.
	Verbs []string
}

// ParseFileFormat parses a file format string.
func ParseFileFormat(format string) (*FileFormat, error) {
	starts, ends, err := startsEndsFormatString(format)
	if err != nil { return nil, err }

	f := &FileFormat{ format: format }
	sepStart := 0
	for i := range starts {
		f.Separators = append(f.Separators, format[sepStart: starts[i]])
		sepStart = ends[i]

		v := format[starts[i]+1: ends[i]-1]
		tok := strings.Split(v, ",")
		if len(tok) != 2 {
			return nil, fmt.Errorf("The file format '%s' has an invalid "+
				"variable, '{%s}'. Variables should contain a formatting "+
				"'verb' (e.g. '%%d', '%%04d'), a comma, and the word 'turn'.",
				format, v)
		}

		verb, rule := strings.TrimSpace(tok[0]), strings.TrimSpace(tok[1])
		if rule != "turn" {
			return nil, fmt.Errorf("The file format '%s' has a variable, "+
				"'{%s}', with the rule '%s', but the only supported rule "+
				"is 'turn'.", format, v, rule)
		}
		if !isIntVerb(verb) {
			return nil, fmt.Errorf("The file format '%s' has a variable, "+
				"'{%s}', with the verb '%s', which can't print an integer.",
				format, v, verb)
		}
		f.Verbs = append(f.Verbs, verb)
	}
	f.Separators = append(f.Separators, format[sepStart:])

	return f, nil
}

// isIntVerb returns true if verb is a single printf() verb which formats
// integers.
func isIntVerb(verb string) bool {
	if len(verb) < 2 || verb[0] != '%' { return false }
	if strings.Count(verb, "%") != 1 { return false }
	switch verb[len(verb)-1] {
	case 'd', 'x', 'X', 'o', 'b': return true
	}
	return false
}

// File returns the name of the file for the given turn.
func (f *FileFormat) File(turn int) string {
	sb := &strings.Builder{ }
	for i := range f.Verbs {
		sb.WriteString(f.Separators[i])
		fmt.Fprintf(sb, f.Verbs[i], turn)
	}
	sb.WriteString(f.Separators[len(f.Separators) - 1])
	return sb.String()
}

// HasVariables returns true if the format's file name depends on the turn.
func (f *FileFormat) HasVariables() bool { return len(f.Verbs) > 0 }

// startsEndsFormatString returns the indices of the beginning and end of each
// format variable.
func startsEndsFormatString(format string) (starts, ends []int, err error) {
	starts, ends = []int{ }, []int{ }
	open := false

	ending := "Make sure variables in file formats are enclosed in " +
		"matching { ... } pairs."

	for i := range format {
		switch format[i] {
		case '{':
			if open {
				return nil, nil, fmt.Errorf("The file format '%s' has nested "+
					"'{' characters at indices %d and %d. %s",
					format, starts[len(starts)-1], i, ending)
			}
			open = true
			starts = append(starts, i)
		case '}':
			if !open {
				return nil, nil, fmt.Errorf("The file format '%s' has a '}' "+
					"that doesn't come after a '{' at index %d. %s",
					format, i, ending)
			}
			open = false
			ends = append(ends, i+1)
		}
	}

	if open {
		return nil, nil, fmt.Errorf("The file format '%s' has a '{' without "+
			"a matching '}' at index %d. %s",
			format, starts[len(starts)-1], ending)
	}

	return starts, ends, nil
}
