package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	qtempo "github.com/alecsandrei/QTempo"
	"github.com/alecsandrei/QTempo/internal/render"
	"github.com/alecsandrei/QTempo/tempo"
)

var (
	selectQuery string
	maxRows     int
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <matrix-code>",
	Short: "Fetch a data matrix and print it as a table",
	Args:  cobra.ExactArgs(1),
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&selectQuery, "select", "", "encoded dimension selection (nomItemIds comma-joined, dimensions colon-joined); default selects everything")
	fetchCmd.Flags().IntVar(&maxRows, "max-rows", 50, "rows to print (0 for all)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	matrix, _, err := fetchMatrix(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	opts := render.DefaultOptions()
	opts.MaxRows = maxRows
	fmt.Print(render.Table(matrix, opts))
	return nil
}

// fetchMatrix retrieves the matrix metadata and data and parses the
// payload. Shared by fetch and map.
func fetchMatrix(ctx context.Context, code string) (*qtempo.Matrix, *tempo.MatrixMeta, error) {
	client := newTempoClient()
	meta, err := client.Matrix(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	enc := selectQuery
	if enc == "" {
		enc = tempo.EncodeQuery(meta.SelectAll())
	}
	raw, err := client.Fetch(ctx, meta.Query(code, viper.GetString("lang"), enc))
	if err != nil {
		return nil, nil, err
	}
	matrix, err := qtempo.ParseResponse(raw, meta.Query(code, viper.GetString("lang"), enc))
	if err != nil {
		return nil, nil, err
	}
	return matrix, meta, nil
}
