package frame

import (
	"sort"
	"strings"
)

// Collection maps entity names to frames sharing one schema. It is owned by a
// single conversion run.
type Collection struct {
	schema Schema
	frames map[string]*Frame
}

// NewCollection returns an empty collection.
func NewCollection(schema Schema) *Collection {
	return &Collection{schema: schema, frames: make(map[string]*Frame)}
}

// Schema returns the shared schema.
func (c *Collection) Schema() Schema { return c.schema }

// Ensure returns the frame for name, creating it on first use.
func (c *Collection) Ensure(name string) *Frame {
	f, ok := c.frames[name]
	if !ok {
		f = New(name, c.schema)
		c.frames[name] = f
	}
	return f
}

// Get returns the frame for name.
func (c *Collection) Get(name string) (*Frame, bool) {
	f, ok := c.frames[name]
	return f, ok
}

// Len returns the number of entities.
func (c *Collection) Len() int { return len(c.frames) }

// Names returns entity names in sorted order.
func (c *Collection) Names() []string {
	names := make([]string, 0, len(c.frames))
	for n := range c.frames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Variable is the identifier form of an entity name used for output files
// and R variables: lower case, spaces replaced by underscores.
func Variable(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}
