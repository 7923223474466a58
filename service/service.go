// Package service implements the boundary providers: external geodata
// catalogs that supply administrative-unit polygons joinable against a
// matrix's SIRUTA codes.
package service

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	qtempo "github.com/alecsandrei/QTempo"
	"github.com/paulmach/orb/geojson"
)

// Options configures a provider. The zero value uses the production
// endpoints and a default HTTP client.
type Options struct {
	BaseURL string
	Client  *http.Client
}

func (o Options) client() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	return &http.Client{Timeout: 60 * time.Second}
}

// All returns every known provider, GISCO LAU first (the default source).
func All(catalog *Catalog) []qtempo.BoundaryProvider {
	return []qtempo.BoundaryProvider{
		NewGISCOLAU(catalog, Options{}),
		NewGISCOCommunes(catalog, Options{}),
		NewANCPI(Options{}),
	}
}

// ByName resolves a provider by its CLI name: "gisco-lau",
// "gisco-communes" or "ancpi".
func ByName(name string, catalog *Catalog, opts Options) (qtempo.BoundaryProvider, error) {
	switch name {
	case "gisco-lau":
		return NewGISCOLAU(catalog, opts), nil
	case "gisco-communes":
		return NewGISCOCommunes(catalog, opts), nil
	case "ancpi":
		return NewANCPI(opts), nil
	default:
		return nil, fmt.Errorf("unknown boundary provider %q", name)
	}
}

// decodeFeatures parses a GeoJSON payload and extracts the join field.
// features with an absent join value are kept so the schema check below
// can distinguish "field missing entirely" from sparse attributes.
func decodeFeatures(short string, payload []byte, joinField string, legacy ...string) ([]qtempo.BoundaryFeature, error) {
	fc, err := geojson.UnmarshalFeatureCollection(payload)
	if err != nil {
		return nil, &qtempo.ServiceError{Provider: short, Reason: "malformed boundary payload", Err: err}
	}
	if len(fc.Features) == 0 {
		return nil, &qtempo.ServiceError{Provider: short, Reason: "no features were returned, try again later"}
	}

	fields := append([]string{joinField}, legacy...)
	out := make([]qtempo.BoundaryFeature, 0, len(fc.Features))
	found := false
	for _, f := range fc.Features {
		bf := qtempo.BoundaryFeature{Geometry: f.Geometry, Properties: f.Properties}
		for _, name := range fields {
			if raw, ok := f.Properties[name]; ok {
				bf.JoinValue = propString(raw)
				found = true
				break
			}
		}
		out = append(out, bf)
	}
	if !found {
		return nil, &qtempo.ServiceError{
			Provider: short,
			Reason:   fmt.Sprintf("the SIRUTA field %q was not found", joinField),
		}
	}
	return out, nil
}

// propString renders a GeoJSON property value as a join-key string.
// Upstream payloads encode codes either as strings or as JSON numbers.
func propString(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}

// do executes the request and returns the body, wrapping transport and
// status failures as provider errors.
func do(client *http.Client, short string, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, &qtempo.ServiceError{Provider: short, Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &qtempo.ServiceError{
			Provider: short,
			Reason:   fmt.Sprintf("unexpected status %s for %s", resp.Status, req.URL),
		}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &qtempo.ServiceError{Provider: short, Reason: "reading response failed", Err: err}
	}
	return body, nil
}
