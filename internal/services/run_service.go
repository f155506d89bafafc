package services

import (
	"context"
	"log/slog"
	"strings"

	apperrors "cacases/internal/errors"
	"cacases/internal/frame"
	"cacases/pkg/contracts/domain"
)

// LatestRun is the run id alias that resolves to the most recent run.
const LatestRun = "latest"

// SnapshotReader is the read side of the snapshot store.
type SnapshotReader interface {
	Latest(ctx context.Context) (*domain.RunSnapshot, error)
	Get(ctx context.Context, runID string) (*domain.RunSnapshot, error)
	List(ctx context.Context) ([]domain.RunInfo, error)
}

// RunService answers questions about stored conversion runs.
type RunService struct {
	reader SnapshotReader
	logger *slog.Logger
}

// NewRunService creates a run service over reader.
func NewRunService(reader SnapshotReader, logger *slog.Logger) *RunService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RunService{
		reader: reader,
		logger: logger.With(slog.String("component", "run_service")),
	}
}

// ListRuns returns every stored run, newest first.
func (s *RunService) ListRuns(ctx context.Context) ([]domain.RunInfo, error) {
	runs, err := s.reader.List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "list runs failed", slog.String("error", err.Error()))
		return nil, err
	}
	if runs == nil {
		runs = []domain.RunInfo{}
	}
	return runs, nil
}

// GetRun returns a run by id. An empty id or "latest" resolves to the most
// recent run.
func (s *RunService) GetRun(ctx context.Context, runID string) (*domain.RunSnapshot, error) {
	runID = strings.TrimSpace(runID)
	if runID == "" || runID == LatestRun {
		return s.reader.Latest(ctx)
	}
	return s.reader.Get(ctx, runID)
}

// ListEntities returns the entity summaries of a run, optionally restricted
// to one region. Region matching ignores case.
func (s *RunService) ListEntities(ctx context.Context, runID, region string) ([]domain.EntitySummary, error) {
	snapshot, err := s.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	entities := make([]domain.EntitySummary, 0, len(snapshot.Entities))
	for _, e := range snapshot.Entities {
		if region != "" && !strings.EqualFold(e.Region, region) {
			continue
		}
		entities = append(entities, e)
	}

	s.logger.DebugContext(ctx, "entities listed",
		slog.String("run_id", snapshot.RunID),
		slog.String("region", region),
		slog.Int("count", len(entities)))
	return entities, nil
}

// GetEntity returns one entity of a run. name may be the display name in any
// case or the entity's variable form ("san_francisco").
func (s *RunService) GetEntity(ctx context.Context, runID, name string) (domain.EntitySummary, error) {
	snapshot, err := s.GetRun(ctx, runID)
	if err != nil {
		return domain.EntitySummary{}, err
	}

	if e, ok := snapshot.Entity(name); ok {
		return e, nil
	}
	variable := frame.Variable(name)
	for _, e := range snapshot.Entities {
		if strings.EqualFold(e.Name, name) || e.Variable == variable {
			return e, nil
		}
	}

	return domain.EntitySummary{}, apperrors.NewNotFoundError("entity " + name).
		WithContext("run_id", snapshot.RunID)
}
