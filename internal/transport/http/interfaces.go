package http

import (
	"context"

	"cacases/pkg/contracts/domain"
)

// RunServiceInterface defines the run queries the API serves.
type RunServiceInterface interface {
	ListRuns(ctx context.Context) ([]domain.RunInfo, error)
	GetRun(ctx context.Context, runID string) (*domain.RunSnapshot, error)
	ListEntities(ctx context.Context, runID, region string) ([]domain.EntitySummary, error)
	GetEntity(ctx context.Context, runID, name string) (domain.EntitySummary, error)
}
