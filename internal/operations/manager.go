package operations

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	apperrors "unistats/internal/errors"
)

// Manager executes pipeline steps sequentially with fail-fast semantics.
type Manager struct {
	logger *slog.Logger
	steps  []Step
}

// NewManager creates a manager over the given steps in execution order.
func NewManager(logger *slog.Logger, steps ...Step) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{logger: logger, steps: steps}
}

// NumSteps returns how many steps the manager holds.
func (m *Manager) NumSteps() int {
	return len(m.steps)
}

// Run executes steps 1..upTo in order. Each step is validated against the
// state produced by its predecessors before it executes; the first
// validation or execution error aborts the run.
func (m *Manager) Run(ctx context.Context, state *State, upTo int) error {
	if upTo < 1 || upTo > len(m.steps) {
		return apperrors.NewInvalidInputError(fmt.Sprintf("%d", upTo)).
			WithContext("max_steps", len(m.steps))
	}

	if state.RunID == "" {
		state.RunID = uuid.NewString()
	}
	logger := m.logger.With(slog.String("run_id", state.RunID))
	logger.Info("starting pipeline run", slog.Int("steps", upTo))

	for i, step := range m.steps[:upTo] {
		st := NewStepState(step.ID(), step.Name())

		if err := step.Validate(state); err != nil {
			st.Fail(err)
			logger.Error("step validation failed",
				slog.String("step", step.ID()),
				slog.Any("error", err))
			return fmt.Errorf("step %s validation: %w", step.ID(), err)
		}

		st.Start()
		logger.Info("step started",
			slog.String("step", step.ID()),
			slog.String("name", step.Name()),
			slog.Int("position", i+1))

		if err := step.Execute(ctx, state); err != nil {
			st.Fail(err)
			logger.Error("step failed",
				slog.String("step", step.ID()),
				slog.Duration("duration", st.Duration()),
				slog.Any("error", err))
			return fmt.Errorf("step %s: %w", step.ID(), err)
		}

		st.Complete()
		logger.Info("step completed",
			slog.String("step", step.ID()),
			slog.Duration("duration", st.Duration()))
	}

	logger.Info("pipeline run completed")
	return nil
}
