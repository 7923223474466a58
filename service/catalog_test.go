package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qtempo "github.com/alecsandrei/QTempo"
)

func TestNewestEntry(t *testing.T) {
	datasets := map[string]datasetEntry{
		"a": {Date: "01/07/2020", Files: "a.json"},
		"b": {Date: "15/06/2023", Files: "b.json"},
		"c": {Date: "31/12/2022", Files: "c.json"},
	}
	newest, err := newestEntry(datasets)
	require.NoError(t, err)
	assert.Equal(t, "b.json", newest.Files)
}

func TestNewestEntryDayMonthOrder(t *testing.T) {
	// 02/03 is March 2nd, not February 3rd.
	datasets := map[string]datasetEntry{
		"a": {Date: "02/03/2021", Files: "march.json"},
		"b": {Date: "28/02/2021", Files: "february.json"},
	}
	newest, err := newestEntry(datasets)
	require.NoError(t, err)
	assert.Equal(t, "march.json", newest.Files)
}

func TestNewestEntryErrors(t *testing.T) {
	_, err := newestEntry(nil)
	assert.Error(t, err)

	_, err = newestEntry(map[string]datasetEntry{"a": {Date: "2023-06-15"}})
	assert.Error(t, err)
}

func TestLastGeoJSONFile(t *testing.T) {
	manifest := []byte(`{
		"csv": {"x": "x.csv"},
		"geojson": {
			"RG_3035": "download/a.geojson",
			"RG_3857": "download/b.geojson",
			"RG_4326": "download/c.geojson"
		},
		"topojson": {"x": "x.json"}
	}`)
	file, err := lastGeoJSONFile(manifest)
	require.NoError(t, err)
	assert.Equal(t, "download/c.geojson", file)
}

func TestLastGeoJSONFileErrors(t *testing.T) {
	_, err := lastGeoJSONFile([]byte(`{"csv": {}}`))
	assert.Error(t, err)

	_, err = lastGeoJSONFile([]byte(`{"geojson": {}}`))
	assert.Error(t, err)

	_, err = lastGeoJSONFile([]byte(`{"geojson": []}`))
	assert.Error(t, err)

	_, err = lastGeoJSONFile([]byte(`not json`))
	assert.Error(t, err)
}

func TestResolveURL(t *testing.T) {
	got, err := resolveURL("https://example.com/distribution/v2/lau/", "datasets.json")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/distribution/v2/lau/datasets.json", got)

	got, err = resolveURL("https://example.com/lau/", "https://cdn.example.com/a.geojson")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.geojson", got)
}

func TestCatalogMalformedManifest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not json")
	}))
	defer server.Close()

	catalog := NewCatalog(slog.Default())
	_, err := catalog.Newest(context.Background(), server.Client(), "GISCO", server.URL+"/")
	var serviceErr *qtempo.ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, "GISCO", serviceErr.Provider)
}

func TestCatalogConcurrentFirstAccess(t *testing.T) {
	var requests sync.Map
	mux := http.NewServeMux()
	mux.HandleFunc("/datasets.json", func(w http.ResponseWriter, r *http.Request) {
		requests.Store(r.URL.Path, true)
		fmt.Fprint(w, `{"d": {"date": "15/06/2023", "files": "files.json"}}`)
	})
	mux.HandleFunc("/files.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"geojson": {"RG_4326": "data.geojson"}}`)
	})
	mux.HandleFunc("/data.geojson", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"type": "FeatureCollection", "features": []}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	catalog := NewCatalog(slog.Default())
	var wg sync.WaitGroup
	results := make([][]byte, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			payload, err := catalog.Newest(context.Background(), server.Client(), "GISCO", server.URL+"/")
			assert.NoError(t, err)
			results[i] = payload
		}(i)
	}
	wg.Wait()

	// Racing fetches are allowed; every caller sees an equivalent payload.
	for _, payload := range results {
		assert.JSONEq(t, `{"type": "FeatureCollection", "features": []}`, string(payload))
	}
}
