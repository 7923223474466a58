package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	qtempo "github.com/alecsandrei/QTempo"
)

// catalogDateLayout is the publication date format of the GISCO dataset
// manifest (day/month/year).
const catalogDateLayout = "02/01/2006"

// datasetEntry is one dataset in the distribution manifest. Only the
// publication date and the file manifest pointer matter for resolution;
// the remaining manifest keys are ignored.
type datasetEntry struct {
	Date  string `json:"date"`
	Files string `json:"files"`
}

// Catalog resolves and memoizes the newest GeoJSON dataset of a GISCO
// distribution base URL. The cache lives for the process lifetime with no
// invalidation: the catalogs change a few times a year and a session is
// short-lived. Racing first fetches are idempotent; the last writer wins.
type Catalog struct {
	log *slog.Logger

	mu    sync.Mutex
	cache map[string][]byte
}

func NewCatalog(log *slog.Logger) *Catalog {
	if log == nil {
		log = slog.Default()
	}
	return &Catalog{log: log, cache: make(map[string][]byte)}
}

// Newest returns the GeoJSON payload of the most recently published
// dataset under baseURL, fetching and caching it on first use.
func (c *Catalog) Newest(ctx context.Context, client *http.Client, short, baseURL string) ([]byte, error) {
	c.mu.Lock()
	payload, ok := c.cache[baseURL]
	c.mu.Unlock()
	if ok {
		return payload, nil
	}

	payload, err := c.resolve(ctx, client, short, baseURL)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.cache[baseURL] = payload
	c.mu.Unlock()
	return payload, nil
}

// resolve walks the two manifest levels: datasets.json → newest entry by
// publication date → file manifest → last geojson key.
func (c *Catalog) resolve(ctx context.Context, client *http.Client, short, baseURL string) ([]byte, error) {
	manifestURL, err := resolveURL(baseURL, "datasets.json")
	if err != nil {
		return nil, &qtempo.ServiceError{Provider: short, Reason: "invalid catalog URL", Err: err}
	}
	raw, err := c.get(ctx, client, short, manifestURL)
	if err != nil {
		return nil, err
	}

	var datasets map[string]datasetEntry
	if err := json.Unmarshal(raw, &datasets); err != nil {
		return nil, &qtempo.ServiceError{Provider: short, Reason: "malformed dataset manifest", Err: err}
	}
	newest, err := newestEntry(datasets)
	if err != nil {
		return nil, &qtempo.ServiceError{Provider: short, Reason: "resolving newest dataset failed", Err: err}
	}

	filesURL, err := resolveURL(baseURL, newest.Files)
	if err != nil {
		return nil, &qtempo.ServiceError{Provider: short, Reason: "invalid file manifest URL", Err: err}
	}
	rawFiles, err := c.get(ctx, client, short, filesURL)
	if err != nil {
		return nil, err
	}

	file, err := lastGeoJSONFile(rawFiles)
	if err != nil {
		return nil, &qtempo.ServiceError{Provider: short, Reason: "malformed file manifest", Err: err}
	}
	dataURL, err := resolveURL(baseURL, file)
	if err != nil {
		return nil, &qtempo.ServiceError{Provider: short, Reason: "invalid dataset URL", Err: err}
	}
	c.log.Info("resolved boundary dataset", "provider", short, "date", newest.Date, "url", dataURL)
	return c.get(ctx, client, short, dataURL)
}

func (c *Catalog) get(ctx context.Context, client *http.Client, short, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &qtempo.ServiceError{Provider: short, Reason: "building request failed", Err: err}
	}
	return do(client, short, req)
}

// newestEntry picks the dataset with the maximum publication date.
func newestEntry(datasets map[string]datasetEntry) (datasetEntry, error) {
	var (
		newest   datasetEntry
		newestAt time.Time
		found    bool
	)
	for _, entry := range datasets {
		at, err := time.Parse(catalogDateLayout, entry.Date)
		if err != nil {
			return datasetEntry{}, fmt.Errorf("dataset date %q: %w", entry.Date, err)
		}
		if !found || at.After(newestAt) {
			newest = entry
			newestAt = at
			found = true
		}
	}
	if !found {
		return datasetEntry{}, fmt.Errorf("dataset manifest is empty")
	}
	return newest, nil
}

// lastGeoJSONFile returns the URL under the last key of the "geojson"
// object in the file manifest. Key order is the document order, which the
// upstream uses to put the EPSG:4326 dataset last. That is convention, not
// contract; treat changes upstream as a config update here.
func lastGeoJSONFile(manifest []byte) (string, error) {
	var files map[string]json.RawMessage
	if err := json.Unmarshal(manifest, &files); err != nil {
		return "", err
	}
	rawGeoJSON, ok := files["geojson"]
	if !ok {
		return "", fmt.Errorf("file manifest has no geojson entries")
	}

	dec := json.NewDecoder(bytes.NewReader(rawGeoJSON))
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return "", fmt.Errorf("geojson manifest entry is not an object")
	}
	var last string
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return "", err
		}
		if err := dec.Decode(&last); err != nil {
			return "", err
		}
	}
	if last == "" {
		return "", fmt.Errorf("geojson manifest entry is empty")
	}
	return last, nil
}

// resolveURL resolves ref against base the way a browser would, so both
// relative manifest paths and absolute URLs work.
func resolveURL(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(r).String(), nil
}
