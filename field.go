package qtempo

import (
	"fmt"
	"strings"
)

// Role marks the semantic axis a matrix column carries. Roles form a bit
// set so a column can carry several tags, though responses assign at most
// one per column.
type Role uint8

const (
	// RoleTime is the time axis of the matrix.
	RoleTime Role = 1 << iota
	// RoleValue is the numeric value column (always the last column of a
	// query response).
	RoleValue
	// RoleRegion, RoleCounty and RoleLocality are the three geography axes.
	RoleRegion
	RoleCounty
	RoleLocality

	// RoleNone tags a plain column.
	RoleNone Role = 0

	roleGeo = RoleRegion | RoleCounty | RoleLocality
)

func (r Role) String() string {
	if r == RoleNone {
		return "none"
	}
	names := make([]string, 0, 1)
	if r&RoleTime != 0 {
		names = append(names, "time")
	}
	if r&RoleValue != 0 {
		names = append(names, "value")
	}
	if r&RoleRegion != 0 {
		names = append(names, "region")
	}
	if r&RoleCounty != 0 {
		names = append(names, "county")
	}
	if r&RoleLocality != 0 {
		names = append(names, "locality")
	}
	return strings.Join(names, "|")
}

// Field describes one matrix column: its header name plus the roles
// assigned to it from the query's column indices. Field identity is the
// name alone; roles are informative tags on top of it.
type Field struct {
	Name  string
	Roles Role
}

func (f Field) HasRole(r Role) bool {
	return f.Roles&r != 0
}

// IsGeo reports whether the field carries any of the geography roles.
func (f Field) IsGeo() bool {
	return f.HasRole(roleGeo)
}

// FieldSet is an ordered list of fields. Order is the source column order
// and defines row tuple positions.
type FieldSet []Field

// ByRole returns the first field carrying the role. The model does not
// enforce role uniqueness; first match is the contract consumers rely on.
func (fs FieldSet) ByRole(r Role) (Field, error) {
	for _, f := range fs {
		if f.HasRole(r) {
			return f, nil
		}
	}
	return Field{}, fmt.Errorf("no field with role %q: %w", r, ErrFieldNotFound)
}

func (fs FieldSet) ByName(name string) (Field, error) {
	for _, f := range fs {
		if f.Name == name {
			return f, nil
		}
	}
	return Field{}, fmt.Errorf("no field named %q: %w", name, ErrFieldNotFound)
}

// Index returns the column position of the named field, or -1.
func (fs FieldSet) Index(name string) int {
	for i, f := range fs {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func (fs FieldSet) Names() []string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.Name
	}
	return names
}
