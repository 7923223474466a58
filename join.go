package qtempo

import (
	"context"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// JoinedRow is one matched geography: its key, the boundary geometry and
// attributes, and the pivoted value columns.
type JoinedRow struct {
	Key        *GeoKey
	Geometry   orb.Geometry
	Properties map[string]any
	Values     []Cell
}

// JoinedDataset is the result of joining a pivoted matrix against a
// boundary provider: one row per geography present on both sides.
type JoinedDataset struct {
	Provider string
	Fields   FieldSet
	Rows     []JoinedRow
}

// Join combines a pivoted matrix with boundary polygons fetched from the
// provider. Features are matched by normalizing their join field value and
// comparing it to the matrix geography codes; geographies missing from
// either side are dropped, not errored.
func Join(ctx context.Context, pivoted *Matrix, provider BoundaryProvider) (*JoinedDataset, error) {
	if !pivoted.HasGeography() {
		return nil, &PreconditionError{Op: "join", Reason: "matrix has no geography column"}
	}
	keys := distinctGeoKeys(pivoted.GeoKeys())
	features, err := provider.FetchBoundaries(ctx, keys)
	if err != nil {
		return nil, err
	}

	rowByCode := make(map[string]int, pivoted.NumRows())
	for i, k := range pivoted.GeoKeys() {
		if k == nil {
			continue
		}
		if _, ok := rowByCode[k.Code]; !ok {
			rowByCode[k.Code] = i
		}
	}

	out := &JoinedDataset{Provider: provider.ShortName(), Fields: pivoted.Fields()}
	for _, f := range features {
		code := provider.NormalizeJoinValue(f.JoinValue)
		i, ok := rowByCode[code]
		if !ok {
			continue
		}
		out.Rows = append(out.Rows, JoinedRow{
			Key:        pivoted.GeoKeys()[i],
			Geometry:   f.Geometry,
			Properties: f.Properties,
			Values:     pivoted.Row(i),
		})
	}
	return out, nil
}

// FeatureCollection renders the joined dataset as a GeoJSON feature
// collection ready for a map layer. Each feature carries the geography
// code and name plus one property per pivoted value column; NULL cells
// become JSON nulls.
func (d *JoinedDataset) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, row := range d.Rows {
		feature := geojson.NewFeature(row.Geometry)
		feature.Properties["siruta"] = row.Key.Code
		feature.Properties["name"] = row.Key.Place
		for i, f := range d.Fields {
			if !row.Values[i].Valid {
				feature.Properties[f.Name] = nil
				continue
			}
			feature.Properties[f.Name] = row.Values[i].Value
		}
		fc.Append(feature)
	}
	return fc
}
