package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"cacases/pkg/contracts/domain"
)

// MockSnapshotReader implements SnapshotReader for service tests
type MockSnapshotReader struct {
	mock.Mock
}

func (m *MockSnapshotReader) Latest(ctx context.Context) (*domain.RunSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RunSnapshot), args.Error(1)
}

func (m *MockSnapshotReader) Get(ctx context.Context, runID string) (*domain.RunSnapshot, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RunSnapshot), args.Error(1)
}

func (m *MockSnapshotReader) List(ctx context.Context) ([]domain.RunInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RunInfo), args.Error(1)
}

func testSnapshot(runID string) *domain.RunSnapshot {
	return &domain.RunSnapshot{
		RunID:     runID,
		AsOf:      "2020/03/20",
		Layout:    "area_type",
		CreatedAt: time.Date(2020, 3, 21, 8, 0, 0, 0, time.UTC),
		Entities: []domain.EntitySummary{
			{Name: "Alameda", Variable: "alameda", Region: "Bay Area", LastDate: "2020/03/20", Rows: 3},
			{Name: "San Francisco", Variable: "san_francisco", Region: "Bay Area", LastDate: "2020/03/20", Rows: 3},
			{Name: "Test County", Variable: "test_county", Region: "Test Region", LastDate: "2020/03/19", Rows: 2},
		},
	}
}
