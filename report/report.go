// Package report compares predicted labels with true labels and renders the
// result.
package report

import (
	"encoding/json"
	"fmt"
	"io"
)

// Format selects the rendering used by Write.
type Format string

const (
	// FormatText is the human-readable layout (default).
	FormatText Format = "text"
	// FormatJSON is structured JSON for machine consumption.
	FormatJSON Format = "json"
)

// Mismatch is one query whose prediction disagrees with its true label.
// Index is the query's position in the evaluated batch (the test row), not
// its row in the source dataset.
type Mismatch[L comparable] struct {
	Index     int `json:"index"`
	True      L   `json:"true"`
	Predicted L   `json:"predicted"`
}

// Report summarizes predictions against true labels.
type Report[L comparable] struct {
	Correct    int           `json:"correct"`
	Incorrect  int           `json:"incorrect"`
	Mismatches []Mismatch[L] `json:"mismatches"`
}

// Evaluate compares truth and predicted position by position.
func Evaluate[L comparable](truth, predicted []L) (*Report[L], error) {
	if len(truth) != len(predicted) {
		return nil, fmt.Errorf("report: truth and predicted length mismatch: %d != %d", len(truth), len(predicted))
	}
	r := &Report[L]{Mismatches: []Mismatch[L]{}}
	for i := range truth {
		if truth[i] == predicted[i] {
			r.Correct++
			continue
		}
		r.Incorrect++
		r.Mismatches = append(r.Mismatches, Mismatch[L]{Index: i, True: truth[i], Predicted: predicted[i]})
	}
	return r, nil
}

// Total returns the number of compared predictions.
func (r *Report[L]) Total() int { return r.Correct + r.Incorrect }

// Accuracy returns the fraction of correct predictions, or 0 when empty.
func (r *Report[L]) Accuracy() float64 {
	if r.Total() == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total())
}

// Write renders r to w in the given format.
func Write[L comparable](w io.Writer, r *Report[L], format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			*Report[L]
			Accuracy float64 `json:"accuracy"`
		}{Report: r, Accuracy: r.Accuracy()})
	case FormatText, "":
		return writeText(w, r)
	default:
		return fmt.Errorf("report: unknown format %q", format)
	}
}

func writeText[L comparable](w io.Writer, r *Report[L]) error {
	if _, err := fmt.Fprintf(w, "correct: %d\nincorrect: %d\naccuracy: %.4f\n", r.Correct, r.Incorrect, r.Accuracy()); err != nil {
		return err
	}
	if len(r.Mismatches) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "mismatches (test row: true, predicted):"); err != nil {
		return err
	}
	for _, m := range r.Mismatches {
		if _, err := fmt.Fprintf(w, "  test row %d: %v, %v\n", m.Index, m.True, m.Predicted); err != nil {
			return err
		}
	}
	return nil
}
