package service

import (
	"context"
	"net/http"
	"strings"

	qtempo "github.com/alecsandrei/QTempo"
)

// GISCO distribution API bases for the two dataset families.
const (
	DefaultGISCOLAUURL      = "https://gisco-services.ec.europa.eu/distribution/v2/lau/"
	DefaultGISCOCommunesURL = "https://gisco-services.ec.europa.eu/distribution/v2/communes/"
)

// countryCode is the fixed country filter applied to the pan-European
// GISCO datasets before any key matching.
const countryCode = "RO"

// GISCO fetches boundaries from the Commission's GISCO distribution API.
// Unlike ANCPI there is no per-key query: the newest whole dataset is
// resolved through the catalog, downloaded once and filtered locally.
//
// The two dataset families differ in join field, key encoding and the
// name of the country attribute; both are expressed as variants of this
// type rather than separate implementations.
type GISCO struct {
	fullName     string
	shortName    string
	baseURL      string
	joinField    string
	legacyFields []string
	countryField string
	normalize    func(string) string
	catalog      *Catalog
	client       *http.Client
}

// NewGISCOLAU returns the LAU (local administrative units) provider.
// Keys are GISCO_ID values of the form "RO_98505" (legacy datasets use
// LAU_ID); normalization strips everything up to the last underscore.
func NewGISCOLAU(catalog *Catalog, opts Options) *GISCO {
	base := opts.BaseURL
	if base == "" {
		base = DefaultGISCOLAUURL
	}
	return &GISCO{
		fullName:     "Geographic Information System of the Commission (GISCO) - LAU data",
		shortName:    "GISCO",
		baseURL:      base,
		joinField:    "GISCO_ID",
		legacyFields: []string{"LAU_ID"},
		countryField: "CNTR_CODE",
		normalize: func(raw string) string {
			if i := strings.LastIndex(raw, "_"); i >= 0 {
				return raw[i+1:]
			}
			return raw
		},
		catalog: catalog,
		client:  opts.client(),
	}
}

// NewGISCOCommunes returns the communes provider. NSI_CODE values are bare
// SIRUTA codes, so no normalization is applied.
func NewGISCOCommunes(catalog *Catalog, opts Options) *GISCO {
	base := opts.BaseURL
	if base == "" {
		base = DefaultGISCOCommunesURL
	}
	return &GISCO{
		fullName:     "Geographic Information System of the Commission (GISCO) - Communes data",
		shortName:    "GISCO Communes",
		baseURL:      base,
		joinField:    "NSI_CODE",
		countryField: "CNTR_ID",
		normalize:    func(raw string) string { return raw },
		catalog:      catalog,
		client:       opts.client(),
	}
}

func (g *GISCO) FullName() string { return g.fullName }

func (g *GISCO) ShortName() string { return g.shortName }

func (g *GISCO) JoinField() string { return g.joinField }

func (g *GISCO) NormalizeJoinValue(raw string) string { return g.normalize(raw) }

// FetchBoundaries resolves the newest dataset through the catalog and
// keeps only features belonging to the configured country. Key matching
// is left to the join; the requested keys are not used here because the
// dataset is downloaded whole either way.
func (g *GISCO) FetchBoundaries(ctx context.Context, _ []*qtempo.GeoKey) ([]qtempo.BoundaryFeature, error) {
	payload, err := g.catalog.Newest(ctx, g.client, g.shortName, g.baseURL)
	if err != nil {
		return nil, err
	}
	features, err := decodeFeatures(g.shortName, payload, g.joinField, g.legacyFields...)
	if err != nil {
		return nil, err
	}
	kept := features[:0]
	for _, f := range features {
		if country, ok := f.Properties[g.countryField]; ok && propString(country) == countryCode {
			kept = append(kept, f)
		}
	}
	return kept, nil
}
