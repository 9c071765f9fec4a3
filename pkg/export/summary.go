package export

import (
	"fmt"

	"github.com/google/uuid"
)

// Outcome is the result of exporting one feature.
type Outcome int

const (
	// Written means the feature was exported in full.
	Written Outcome = iota
	// Degraded means the feature was exported without its geometry, or with
	// its untransformed geometry.
	Degraded
	// Skipped means the feature was left out on purpose.
	Skipped
	// Failed means the feature was left out because of an error.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Written:
		return "written"
	case Degraded:
		return "degraded"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Issue records a feature that was not exported in full.
type Issue struct {
	FeatureID int64
	Outcome   Outcome
	Reason    string
}

// Summary is the result of one export run.
type Summary struct {
	RunID uuid.UUID
	// Path is the main output file.
	Path string
	// Files lists every file written.
	Files []string

	Total    int
	Written  int
	Degraded int
	Skipped  int
	Failed   int
	// Canceled is set when the run stopped early; the output then holds a
	// prefix of the layer's features.
	Canceled bool

	// Labels and Overlay are only set by the KMZ exporter.
	Labels  int
	Overlay bool

	Issues []Issue
}

func newSummary(path string, total int) *Summary {
	return &Summary{RunID: uuid.New(), Path: path, Total: total}
}

func (s *Summary) record(id int64, o Outcome, reason string) {
	switch o {
	case Written:
		s.Written++
		return
	case Degraded:
		s.Degraded++
	case Skipped:
		s.Skipped++
	case Failed:
		s.Failed++
	}
	s.Issues = append(s.Issues, Issue{FeatureID: id, Outcome: o, Reason: reason})
}

// Processed returns how many features were visited.
func (s *Summary) Processed() int {
	return s.Written + s.Degraded + s.Skipped + s.Failed
}

func (s *Summary) String() string {
	return fmt.Sprintf("%d written, %d degraded, %d skipped, %d failed", s.Written, s.Degraded, s.Skipped, s.Failed)
}
