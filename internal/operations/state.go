// Package operations orchestrates the pipeline stages. Steps run strictly
// in order, each consuming the previous step's output through the shared
// run state, and the first failure aborts the run.
package operations

import (
	"context"
	"io"
	"time"

	"unistats/internal/config"
	"unistats/internal/dataset"
)

// Step identifiers.
const (
	StepIDLoad       = "load"
	StepIDCleanMerge = "clean-merge"
	StepIDVisualize  = "visualize"
	StepIDAnalyze    = "analyze"
)

// Step represents a single stage of the pipeline.
type Step interface {
	// ID returns the unique identifier for this step
	ID() string

	// Name returns the human-readable name for this step
	Name() string

	// Validate checks if the step can be executed with the current state
	Validate(state *State) error

	// Execute runs the step with the given context and run state
	Execute(ctx context.Context, state *State) error
}

// State is the shared state of one pipeline run. Steps read their inputs
// from it and write their outputs to it.
type State struct {
	// RunID identifies this run in logs and the report metadata.
	RunID string

	// Manual selects interactive dataset loading.
	Manual bool

	// Paths resolves every file location used by the run.
	Paths *config.Paths

	// Input is the console input used by manual loading mode.
	Input io.Reader

	// Output receives EDA previews and manual-mode prompts.
	Output io.Writer

	// Stage outputs.
	Performance *dataset.Dataset
	Dropout     *dataset.Dataset
	Merged      *dataset.Table
}

// StepStatus represents the current status of a step.
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
)

// StepState tracks the runtime status and timing of a step.
type StepState struct {
	ID        string
	Name      string
	Status    StepStatus
	StartTime time.Time
	EndTime   time.Time
	Err       error
}

// NewStepState creates a step state in the pending status.
func NewStepState(id, name string) *StepState {
	return &StepState{ID: id, Name: name, Status: StepStatusPending}
}

// Start marks the step as active.
func (s *StepState) Start() {
	s.StartTime = time.Now()
	s.Status = StepStatusActive
}

// Complete marks the step as completed.
func (s *StepState) Complete() {
	s.EndTime = time.Now()
	s.Status = StepStatusCompleted
}

// Fail marks the step as failed with the given error.
func (s *StepState) Fail(err error) {
	s.EndTime = time.Now()
	s.Status = StepStatusFailed
	s.Err = err
}

// Duration returns how long the step ran.
func (s *StepState) Duration() time.Duration {
	if s.StartTime.IsZero() || s.EndTime.IsZero() {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}
