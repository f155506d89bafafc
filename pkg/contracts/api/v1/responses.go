// Package api contains the HTTP response contracts of the cacases API.
// Version v1 represents the current stable API version.
package api

import "cacases/pkg/contracts/domain"

// RunListResponse is returned by GET /api/runs.
type RunListResponse struct {
	Runs  []domain.RunInfo `json:"runs"`
	Count int              `json:"count"`
}

// EntityListResponse is returned by the entity list endpoints.
type EntityListResponse struct {
	RunID    string                 `json:"run_id"`
	Region   string                 `json:"region,omitempty"`
	Entities []domain.EntitySummary `json:"entities"`
	Count    int                    `json:"count"`
}

// EntityResponse is returned by the single entity endpoints.
type EntityResponse struct {
	RunID  string               `json:"run_id"`
	AsOf   string               `json:"as_of"`
	Entity domain.EntitySummary `json:"entity"`
}
