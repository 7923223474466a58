package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qtempo "github.com/alecsandrei/QTempo"
)

const ancpiPayload = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"properties": {"natCode": "12345", "name": "Town A"},
			"geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,0]]]}
		},
		{
			"type": "Feature",
			"properties": {"natCode": 67890, "name": "Town B"},
			"geometry": {"type": "Polygon", "coordinates": [[[2,2],[3,2],[3,3],[2,2]]]}
		}
	]
}`

func TestANCPIFetchBoundaries(t *testing.T) {
	var gotWhere, gotOutFields string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "geojson", r.PostFormValue("f"))
		gotWhere = r.PostFormValue("where")
		gotOutFields = r.PostFormValue("outFields")
		_, _ = w.Write([]byte(ancpiPayload))
	}))
	defer server.Close()

	provider := NewANCPI(Options{BaseURL: server.URL, Client: server.Client()})
	keys := []*qtempo.GeoKey{{Code: "12345"}, {Code: "67890"}}
	features, err := provider.FetchBoundaries(context.Background(), keys)
	require.NoError(t, err)

	assert.Equal(t, "natCode in ('12345', '67890')", gotWhere)
	assert.Equal(t, "natCode,name", gotOutFields)
	require.Len(t, features, 2)
	assert.Equal(t, "12345", features[0].JoinValue)
	// Numeric join values are rendered without an exponent.
	assert.Equal(t, "67890", features[1].JoinValue)
}

func TestANCPIWhereClauseSingleKey(t *testing.T) {
	provider := NewANCPI(Options{})
	where := provider.whereClause([]*qtempo.GeoKey{{Code: "12345"}})
	assert.Equal(t, "natCode = '12345'", where)
}

func TestANCPINormalizeIsIdentity(t *testing.T) {
	provider := NewANCPI(Options{})
	assert.Equal(t, "12345", provider.NormalizeJoinValue("12345"))
	assert.Equal(t, "natCode", provider.JoinField())
	assert.Equal(t, "ANCPI", provider.ShortName())
}

func TestANCPIEmptyFeatures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"type": "FeatureCollection", "features": []}`))
	}))
	defer server.Close()

	provider := NewANCPI(Options{BaseURL: server.URL, Client: server.Client()})
	_, err := provider.FetchBoundaries(context.Background(), []*qtempo.GeoKey{{Code: "1"}})
	var serviceErr *qtempo.ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, "ANCPI", serviceErr.Provider)
	assert.Contains(t, serviceErr.Error(), "no features")
}

func TestANCPIMissingJoinField(t *testing.T) {
	payload := `{
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"properties": {"name": "Town A"},
				"geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,0]]]}
			}
		]
	}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	provider := NewANCPI(Options{BaseURL: server.URL, Client: server.Client()})
	_, err := provider.FetchBoundaries(context.Background(), []*qtempo.GeoKey{{Code: "1"}})
	var serviceErr *qtempo.ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Contains(t, serviceErr.Error(), `"natCode"`)
}

func TestANCPIUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	provider := NewANCPI(Options{BaseURL: server.URL, Client: server.Client()})
	_, err := provider.FetchBoundaries(context.Background(), []*qtempo.GeoKey{{Code: "1"}})
	var serviceErr *qtempo.ServiceError
	assert.ErrorAs(t, err, &serviceErr)
}
