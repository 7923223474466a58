package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	qtempo "github.com/alecsandrei/QTempo"
)

// DefaultANCPIURL is the ANCPI administrative boundaries query endpoint.
const DefaultANCPIURL = "https://geoportal.ancpi.ro/maps/rest/services/Administrativ/Administrativ_download/MapServer/5/query"

// ANCPI fetches locality polygons from the national cadastral agency.
// The endpoint is an ArcGIS feature query: boundaries are requested per
// SIRUTA code, so no country filter is needed and no dataset is cached.
type ANCPI struct {
	baseURL string
	client  *http.Client
}

func NewANCPI(opts Options) *ANCPI {
	base := opts.BaseURL
	if base == "" {
		base = DefaultANCPIURL
	}
	return &ANCPI{baseURL: base, client: opts.client()}
}

func (a *ANCPI) FullName() string {
	return "Agenția Națională de Cadastru și Publicitate Imobiliară (ANCPI)"
}

func (a *ANCPI) ShortName() string { return "ANCPI" }

func (a *ANCPI) JoinField() string { return "natCode" }

// NormalizeJoinValue is the identity: natCode is already a bare SIRUTA code.
func (a *ANCPI) NormalizeJoinValue(raw string) string { return raw }

func (a *ANCPI) FetchBoundaries(ctx context.Context, keys []*qtempo.GeoKey) ([]qtempo.BoundaryFeature, error) {
	form := url.Values{}
	form.Set("f", "geojson")
	form.Set("where", a.whereClause(keys))
	form.Set("outFields", a.JoinField()+",name")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &qtempo.ServiceError{Provider: a.ShortName(), Reason: "building request failed", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	payload, err := do(a.client, a.ShortName(), req)
	if err != nil {
		return nil, err
	}
	return decodeFeatures(a.ShortName(), payload, a.JoinField())
}

// whereClause builds the ArcGIS attribute filter for the requested codes.
func (a *ANCPI) whereClause(keys []*qtempo.GeoKey) string {
	if len(keys) == 1 {
		return fmt.Sprintf("%s = '%s'", a.JoinField(), keys[0].Code)
	}
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = "'" + k.Code + "'"
	}
	return fmt.Sprintf("%s in (%s)", a.JoinField(), strings.Join(quoted, ", "))
}
