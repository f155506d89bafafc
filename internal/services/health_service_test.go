package services

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"cacases/pkg/contracts"
	"cacases/pkg/contracts/domain"
)

func TestHealthCheck(t *testing.T) {
	hs := NewHealthService(nil, nil)

	status := hs.HealthCheck(context.Background())
	assert.Equal(t, StatusOK, status.Status)
	assert.Equal(t, contracts.Version, status.Version)
	assert.False(t, status.Timestamp.IsZero())
}

func TestReadinessCheck(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		reader     func() SnapshotReader
		wantStatus string
		wantStore  string
	}{
		{
			name:       "no store",
			reader:     func() SnapshotReader { return nil },
			wantStatus: StatusNotReady,
			wantStore:  StatusNotReady,
		},
		{
			name: "store answers",
			reader: func() SnapshotReader {
				m := &MockSnapshotReader{}
				m.On("List", mock.Anything).Return([]domain.RunInfo{{RunID: "a"}}, nil)
				return m
			},
			wantStatus: StatusReady,
			wantStore:  StatusReady,
		},
		{
			name: "store fails",
			reader: func() SnapshotReader {
				m := &MockSnapshotReader{}
				m.On("List", mock.Anything).Return(nil, errors.New("database not open"))
				return m
			},
			wantStatus: StatusNotReady,
			wantStore:  StatusNotReady,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs := NewHealthService(tt.reader(), nil)
			status := hs.ReadinessCheck(ctx)

			assert.Equal(t, tt.wantStatus, status.Status)
			assert.Equal(t, tt.wantStore, status.Services["store"].Status)
		})
	}
}

func TestLivenessAndVersion(t *testing.T) {
	hs := NewHealthService(nil, nil)

	live := hs.LivenessCheck(context.Background())
	assert.Equal(t, StatusAlive, live.Status)
	assert.Equal(t, runtime.Version(), live.Runtime["go_version"])

	v := hs.Version()
	assert.Equal(t, contracts.Version, v.Version)
	assert.Equal(t, contracts.APIVersion, v.APIVersion)
	assert.GreaterOrEqual(t, v.UptimeSeconds, 0.0)
	assert.NotEmpty(t, v.StartTime)
}
