// Package region maps entities (counties) to the region that contains them.
package region

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"

	apperrors "cacases/internal/errors"
)

// Lookup is the inverted region file: entity -> region.
type Lookup struct {
	byEntity map[string]string
	regions  map[string][]string
}

// New inverts a region -> entities map. An entity listed under two regions
// is a configuration error.
func New(regions map[string][]string) (*Lookup, error) {
	l := &Lookup{
		byEntity: make(map[string]string),
		regions:  make(map[string][]string, len(regions)),
	}

	names := make([]string, 0, len(regions))
	for r := range regions {
		names = append(names, r)
	}
	sort.Strings(names)

	for _, r := range names {
		for _, entity := range regions[r] {
			entity = strings.TrimSpace(entity)
			if entity == "" {
				return nil, apperrors.NewConfigError(fmt.Sprintf("region %q lists an empty entity", r), nil)
			}
			if prev, dup := l.byEntity[entity]; dup {
				return nil, apperrors.NewConfigError(
					fmt.Sprintf("entity %q is listed under both %q and %q", entity, prev, r), nil).
					WithContext("entity", entity)
			}
			l.byEntity[entity] = r
			l.regions[r] = append(l.regions[r], entity)
		}
	}
	return l, nil
}

// Read parses a YAML region file from r.
func Read(r io.Reader) (*Lookup, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.NewParsingError("read region file", err)
	}
	var regions map[string][]string
	if err := yaml.Unmarshal(data, &regions); err != nil {
		return nil, apperrors.NewParsingError("parse region file", err)
	}
	return New(regions)
}

// Load reads a YAML region file from path.
func Load(path string) (*Lookup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewConfigError(fmt.Sprintf("open region file %s", path), err)
	}
	defer f.Close()
	return Read(f)
}

// Region returns the region containing entity.
func (l *Lookup) Region(entity string) (string, error) {
	r, ok := l.byEntity[entity]
	if !ok {
		return "", apperrors.NewLookupError(entity)
	}
	return r, nil
}

// Regions returns region names in sorted order.
func (l *Lookup) Regions() []string {
	names := make([]string, 0, len(l.regions))
	for r := range l.regions {
		names = append(names, r)
	}
	sort.Strings(names)
	return names
}

// Entities returns the entities in region, in file order.
func (l *Lookup) Entities(region string) []string {
	return append([]string(nil), l.regions[region]...)
}

// Len returns the number of entities.
func (l *Lookup) Len() int { return len(l.byEntity) }
