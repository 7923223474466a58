// Package tempo is a client for the INS Tempo-Online statistics API: the
// table-of-contents context tree, per-matrix metadata and the pivot
// endpoint that returns delimited data payloads.
package tempo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	qtempo "github.com/alecsandrei/QTempo"
)

// DefaultBaseURL is the production Tempo-Online API root.
const DefaultBaseURL = "http://statistici.insse.ro:8077/tempo-ins/"

// Languages accepted by the API. Romanian is the API default and needs no
// query parameter.
const (
	LangRO = "ro"
	LangEN = "en"
)

// Options configures a Client. Zero values select the production endpoint,
// Romanian and a default HTTP client.
type Options struct {
	BaseURL  string
	Language string
	Client   *http.Client
	Logger   *slog.Logger
}

// Client talks to the Tempo API. All methods are synchronous; callers that
// need supersede-on-reissue semantics cancel the previous context.
type Client struct {
	baseURL string
	lang    string
	http    *http.Client
	log     *slog.Logger
}

func NewClient(opts Options) *Client {
	c := &Client{
		baseURL: opts.BaseURL,
		lang:    opts.Language,
		http:    opts.Client,
		log:     opts.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.lang == "" {
		c.lang = LangRO
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 60 * time.Second}
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	return c
}

// Contexts fetches the top level of the table-of-contents tree, sorted by
// numeric context code.
func (c *Client) Contexts(ctx context.Context) ([]Node, error) {
	body, err := c.getJSON(ctx, "context/")
	if err != nil {
		return nil, err
	}
	var nodes []Node
	if err := json.Unmarshal(body, &nodes); err != nil {
		return nil, &qtempo.MalformedResponseError{Reason: fmt.Sprintf("context listing: %v", err)}
	}
	for _, n := range nodes {
		if n.Context.Code == "" {
			return nil, &qtempo.MalformedResponseError{Reason: "context entry without a code"}
		}
	}
	SortNodes(nodes)
	return nodes, nil
}

// Context fetches one tree node with its ancestors and children.
func (c *Client) Context(ctx context.Context, code string) (*Node, error) {
	body, err := c.getJSON(ctx, "context/"+code)
	if err != nil {
		return nil, err
	}
	var node Node
	if err := json.Unmarshal(body, &node); err != nil {
		return nil, &qtempo.MalformedResponseError{Reason: fmt.Sprintf("context %s: %v", code, err)}
	}
	return &node, nil
}

// Matrix fetches the leaf metadata of a data matrix.
func (c *Client) Matrix(ctx context.Context, code string) (*MatrixMeta, error) {
	body, err := c.getJSON(ctx, "matrix/"+code+"/")
	if err != nil {
		return nil, err
	}
	var meta MatrixMeta
	if err := json.Unmarshal(body, &meta); err != nil {
		return nil, &qtempo.MalformedResponseError{Reason: fmt.Sprintf("matrix %s: %v", code, err)}
	}
	if meta.MatrixName == "" || len(meta.Dimensions) == 0 {
		return nil, &qtempo.MalformedResponseError{Reason: fmt.Sprintf("matrix %s metadata is incomplete", code)}
	}
	return &meta, nil
}

// Fetch posts the pivot query and returns the raw delimited payload, ready
// for qtempo.ParseResponse.
func (c *Client) Fetch(ctx context.Context, q qtempo.Query) ([]byte, error) {
	body, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}
	u := c.url("pivot")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.log.Info("fetching matrix data", "matrix", q.MatCode, "url", u)
	return c.send(req)
}

func (c *Client) getJSON(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return nil, err
	}
	return c.send(req)
}

func (c *Client) send(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tempo: unexpected status %s for %s", resp.Status, req.URL)
	}
	return io.ReadAll(resp.Body)
}

// url joins the path onto the base and appends the language parameter for
// anything other than Romanian, which the API treats as its default.
func (c *Client) url(path string) string {
	u := c.baseURL + path
	if c.lang != LangRO {
		u += "?lang=" + c.lang
	}
	return u
}

// EncodeQuery builds the encQuery selection string: the chosen nomItemIds
// of each dimension comma-joined, dimensions colon-joined, in dimension
// order.
func EncodeQuery(selections [][]int) string {
	parts := make([]string, len(selections))
	for i, dim := range selections {
		ids := make([]string, len(dim))
		for j, id := range dim {
			ids[j] = strconv.Itoa(id)
		}
		parts[i] = strings.Join(ids, ",")
	}
	return strings.Join(parts, ":")
}

// SelectAll returns the selection covering every option of every dimension.
func (m *MatrixMeta) SelectAll() [][]int {
	selections := make([][]int, len(m.Dimensions))
	for i, dim := range m.Dimensions {
		ids := make([]int, len(dim.Options))
		for j, opt := range dim.Options {
			ids[j] = opt.NomItemID
		}
		selections[i] = ids
	}
	return selections
}

// SortNodes orders table-of-contents nodes by their numeric context code.
// Codes that fail to parse sort last, keeping their relative order.
func SortNodes(nodes []Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, errA := strconv.Atoi(nodes[i].Context.Code)
		b, errB := strconv.Atoi(nodes[j].Context.Code)
		if errA != nil || errB != nil {
			return errA == nil && errB != nil
		}
		return a < b
	})
}
