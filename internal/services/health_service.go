package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"cacases/pkg/contracts"
)

// Health status values.
const (
	StatusOK       = "ok"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
	StatusAlive    = "alive"
)

// HealthService provides health check functionality
type HealthService struct {
	reader    SnapshotReader
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// VersionStatus is the version endpoint payload.
type VersionStatus struct {
	contracts.VersionInfo
	UptimeSeconds float64 `json:"uptime_seconds"`
	StartTime     string  `json:"start_time"`
}

// NewHealthService creates a health service. reader may be nil when the
// snapshot store is disabled.
func NewHealthService(reader SnapshotReader, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		reader:    reader,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    StatusOK,
		Timestamp: time.Now(),
		Version:   contracts.Version,
	}
}

// ReadinessCheck reports whether the snapshot store answers.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    StatusReady,
		Timestamp: time.Now(),
		Version:   contracts.Version,
		Services:  map[string]ServiceHealth{"store": hs.checkStore(ctx)},
	}

	for _, sh := range status.Services {
		if sh.Status != StatusReady {
			status.Status = StatusNotReady
			break
		}
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    StatusAlive,
		Timestamp: time.Now(),
		Version:   contracts.Version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() VersionStatus {
	return VersionStatus{
		VersionInfo:   contracts.GetVersionInfo(),
		UptimeSeconds: time.Since(hs.startTime).Seconds(),
		StartTime:     hs.startTime.Format(time.RFC3339),
	}
}

func (hs *HealthService) checkStore(ctx context.Context) ServiceHealth {
	if hs.reader == nil {
		return ServiceHealth{
			Status:  StatusNotReady,
			Message: "snapshot store not configured",
		}
	}

	runs, err := hs.reader.List(ctx)
	if err != nil {
		hs.logger.WarnContext(ctx, "store readiness check failed", slog.String("error", err.Error()))
		return ServiceHealth{
			Status:  StatusNotReady,
			Message: fmt.Sprintf("store error: %v", err),
		}
	}

	return ServiceHealth{
		Status:  StatusReady,
		Message: fmt.Sprintf("%d runs stored", len(runs)),
	}
}
