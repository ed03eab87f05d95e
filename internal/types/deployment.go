package types

// RunMode represents how the process runs
type RunMode string

const (
	// RunModeBatch runs the full analysis once and writes a report
	RunModeBatch RunMode = "batch"
	// RunModeAPI runs the analysis API server over the loaded snapshot
	RunModeAPI RunMode = "api"
)

// IsValid checks if the run mode is one of the defined constants
func (m RunMode) IsValid() bool {
	switch m {
	case RunModeBatch, RunModeAPI:
		return true
	}
	return false
}

// String returns the string representation of the run mode
func (m RunMode) String() string {
	return string(m)
}
