// Package services implements the read side of cacases. It sits between
// the HTTP handlers and the snapshot store, resolving run ids and entity
// names and turning store misses into NOT_FOUND errors.
//
// # Available Services
//
//	- RunService: lists stored runs and the entities inside them
//	- HealthService: liveness, readiness and version information
//
// Services accept their dependencies through small interfaces so tests can
// substitute mocks:
//
//	reader := &MockSnapshotReader{}
//	reader.On("Latest", mock.Anything).Return(snapshot, nil)
//	svc := NewRunService(reader, logger)
package services
