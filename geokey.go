package qtempo

import "regexp"

var geoKeyPattern = regexp.MustCompile(`^(\d+)\s(.+)$`)

// GeoKey is a normalized geographic identifier: a SIRUTA code plus the
// display name of the place it identifies. It is the join key shared by
// matrix rows and boundary features.
type GeoKey struct {
	Place string
	Code  string
	// Raw is the source string the key was parsed from, when known.
	Raw string
}

// ParseGeoKey parses a "<code> <name>" locality value, e.g.
// "54975 Cluj-Napoca". It returns a ParseError for anything else, which
// includes the aggregate/total rows the API mixes into locality columns.
func ParseGeoKey(s string) (*GeoKey, error) {
	m := geoKeyPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, &ParseError{Input: s}
	}
	return &GeoKey{Place: m[2], Code: m[1], Raw: s}, nil
}

// Equal reports whether two keys identify the same geography.
// Only the code takes part in identity; names differ across languages.
func (k *GeoKey) Equal(other *GeoKey) bool {
	if k == nil || other == nil {
		return k == other
	}
	return k.Code == other.Code
}
