package exporter

import (
	"encoding/json"
	"io"

	"cacases/pkg/contracts/domain"
)

// WriteSnapshot encodes snapshot as indented JSON.
func WriteSnapshot(w io.Writer, snapshot *domain.RunSnapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snapshot)
}

// ReadSnapshot decodes a snapshot written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*domain.RunSnapshot, error) {
	var snapshot domain.RunSnapshot
	if err := json.NewDecoder(r).Decode(&snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}
