package lib

// RunMode indicates whether kicks are computed by summing over every pair of
// particles or by binning the bunch into slices.
type RunMode int
const (
	DirectMode RunMode = iota
	SlicedMode
)

func (mode RunMode) String() string {
	switch mode {
	case DirectMode: return "direct"
	case SlicedMode: return "sliced"
	}
	return "unknown"
}

// CheckStrictness indicates how functions related to the "check" wakefield
// mode should behave when it encounters an error.
type CheckStrictness int
const (
	CrashOnError CheckStrictness = iota
	WarnOnError
)
