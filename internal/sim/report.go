package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Report is the machine-readable summary of a simulation or tuning
// session, written as JSON for external tooling.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	Seed        string    `json:"seed"`
	Policy      string    `json:"policy"`
	Preset      string    `json:"preset,omitempty"`
	Runs        int       `json:"runs"`

	Metrics Metrics `json:"metrics"`
	Fitness float64 `json:"fitness"`

	Tuning *TuneResult `json:"tuning,omitempty"`
}

// Encode writes the report as indented JSON.
func (r *Report) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("sim: cannot encode report: %w", err)
	}
	return nil
}

// WriteFile writes the report to path, creating or truncating it.
func (r *Report) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sim: cannot create report file: %w", err)
	}
	defer f.Close()

	if err := r.Encode(f); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sim: cannot flush report file: %w", err)
	}
	return nil
}
