package tempo

import (
	qtempo "github.com/alecsandrei/QTempo"
)

// Context is one table-of-contents entry: a statistical theme or, at the
// deepest level, a matrix group.
type Context struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	ChildrenURL string `json:"childrenUrl"`
	Comment     string `json:"comment"`
	URL         string `json:"url"`
}

// Node is a table-of-contents tree node. Ancestors and Children are only
// present on nodes fetched individually, not in the top-level listing.
type Node struct {
	ParentCode string    `json:"parentCode"`
	Level      int       `json:"level"`
	Context    Context   `json:"context"`
	Ancestors  []Context `json:"ancestors"`
	Children   []Context `json:"children"`
}

// Choice is one selectable option of a query dimension.
type Choice struct {
	Label     string `json:"label"`
	NomItemID int    `json:"nomItemId"`
	Offset    int    `json:"offset"`
	ParentID  *int   `json:"parentId"`
}

// Dimension is one query axis of a matrix and its options.
type Dimension struct {
	Options []Choice `json:"options"`
	DimCode int      `json:"dimCode"`
	Label   string   `json:"label"`
}

// Details carries the 1-based column-role indices of a matrix along with
// the echo fields the pivot endpoint expects back unchanged.
type Details struct {
	NomJud       int `json:"nomJud"`
	NomLoc       int `json:"nomLoc"`
	MatMaxDim    int `json:"matMaxDim"`
	MatUMSpec    int `json:"matUMSpec"`
	MatSiruta    int `json:"matSiruta"`
	MatCaen1     int `json:"matCaen1"`
	MatCaen2     int `json:"matCaen2"`
	MatRegJ      int `json:"matRegJ"`
	MatCharge    int `json:"matCharge"`
	MatViews     int `json:"matViews"`
	MatDownloads int `json:"matDownloads"`
	MatActive    int `json:"matActive"`
	MatTime      int `json:"matTime"`
}

// DataSource names one upstream source feeding a matrix.
type DataSource struct {
	Name       string `json:"nume"`
	Type       string `json:"tip"`
	LinkNumber int    `json:"linkNumber"`
	TypeCode   int    `json:"codTip"`
}

// MatrixMeta is the leaf metadata of one data matrix.
type MatrixMeta struct {
	Ancestors     []Context    `json:"ancestors"`
	MatrixName    string       `json:"matrixName"`
	Periodicities []string     `json:"periodicitati"`
	DataSources   []DataSource `json:"surseDeDate"`
	Definition    string       `json:"definitie"`
	Dimensions    []Dimension  `json:"dimensionsMap"`
	Details       Details      `json:"details"`
}

// Query assembles the pivot request body for this matrix from a language
// tag and an encoded dimension selection.
func (m *MatrixMeta) Query(code, lang, encQuery string) qtempo.Query {
	return qtempo.Query{
		Language:     lang,
		EncQuery:     encQuery,
		MatCode:      code,
		NomJud:       m.Details.NomJud,
		NomLoc:       m.Details.NomLoc,
		MatMaxDim:    m.Details.MatMaxDim,
		MatUMSpec:    m.Details.MatUMSpec,
		MatSiruta:    m.Details.MatSiruta,
		MatCaen1:     m.Details.MatCaen1,
		MatCaen2:     m.Details.MatCaen2,
		MatRegJ:      m.Details.MatRegJ,
		MatCharge:    m.Details.MatCharge,
		MatViews:     m.Details.MatViews,
		MatDownloads: m.Details.MatDownloads,
		MatActive:    m.Details.MatActive,
		MatTime:      m.Details.MatTime,
	}
}
