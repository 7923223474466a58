package qtempo

import (
	"context"

	"github.com/paulmach/orb"
)

// BoundaryFeature is one polygon feature returned by a boundary provider,
// with the provider's attributes and the raw value of its join field.
type BoundaryFeature struct {
	Geometry   orb.Geometry
	Properties map[string]any
	// JoinValue is the raw, un-normalized value of the provider's join
	// field for this feature. Pass it through the provider's
	// NormalizeJoinValue before comparing to a GeoKey code.
	JoinValue string
}

// BoundaryProvider fetches boundary polygons for a set of geography keys
// and describes how to join them against a matrix's geography column.
// Implementations live in the service package.
type BoundaryProvider interface {
	FullName() string
	ShortName() string
	// JoinField is the name of the provider's join key attribute.
	JoinField() string
	// NormalizeJoinValue converts a raw join field value into the bare
	// code comparable to GeoKey.Code.
	NormalizeJoinValue(raw string) string
	// FetchBoundaries retrieves features for the requested keys. Providers
	// backed by whole-country datasets may return more features than
	// requested; the join discards the rest.
	FetchBoundaries(ctx context.Context, keys []*GeoKey) ([]BoundaryFeature, error)
}
