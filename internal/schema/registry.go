package schema

import (
	"fmt"
	"sort"

	"github.com/roach88/strata/internal/coordinate"
	"github.com/roach88/strata/internal/key"
)

// Registry indexes coordinates by their family's own type tag.
// Built once at load time and read-only afterwards.
type Registry struct {
	coords map[key.TypeTag]coordinate.Coordinate
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{coords: make(map[key.TypeTag]coordinate.Coordinate)}
}

// Register adds a coordinate. Duplicate own-type declarations are an error.
func (r *Registry) Register(coord coordinate.Coordinate) error {
	if _, exists := r.coords[coord.OwnType]; exists {
		return fmt.Errorf("coordinate for type %q already registered", coord.OwnType)
	}
	r.coords[coord.OwnType] = coord
	return nil
}

// Lookup returns the coordinate for an own-type tag.
func (r *Registry) Lookup(tag key.TypeTag) (coordinate.Coordinate, bool) {
	coord, ok := r.coords[tag]
	return coord, ok
}

// Types returns the registered own-type tags in sorted order.
func (r *Registry) Types() []key.TypeTag {
	tags := make([]key.TypeTag, 0, len(r.coords))
	for tag := range r.coords {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// Len returns the number of registered coordinates.
func (r *Registry) Len() int {
	return len(r.coords)
}
