package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	qtempo "github.com/alecsandrei/QTempo"
	"github.com/alecsandrei/QTempo/service"
)

var (
	groupByField string
	fixFilters   []string
	providerName string
	outPath      string
)

var mapCmd = &cobra.Command{
	Use:   "map <matrix-code>",
	Short: "Pivot a matrix by geography and join it to boundary polygons",
	Long: "Fetches the matrix, groups it by the chosen field under the given\n" +
		"fixed-value filters, fetches boundary polygons for its SIRUTA codes\n" +
		"and writes the joined result as a GeoJSON feature collection.",
	Args: cobra.ExactArgs(1),
	RunE: runMap,
}

func init() {
	mapCmd.Flags().StringVar(&groupByField, "group-by", "", "field to pivot on (required)")
	mapCmd.Flags().StringArrayVar(&fixFilters, "fix", nil, "fixed filter as field=value; repeatable")
	mapCmd.Flags().StringVar(&providerName, "provider", "gisco-lau", "boundary provider: gisco-lau, gisco-communes or ancpi")
	mapCmd.Flags().StringVarP(&outPath, "out", "o", "-", "output GeoJSON path (- for stdout)")
	_ = mapCmd.MarkFlagRequired("group-by")
}

func runMap(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	matrix, _, err := fetchMatrix(ctx, args[0])
	if err != nil {
		return err
	}
	if !matrix.HasGeography() {
		return fmt.Errorf("matrix %s has no SIRUTA column; it cannot be mapped", args[0])
	}

	pivot, err := matrix.Fields().ByName(groupByField)
	if err != nil {
		return err
	}
	fixed, err := parseFixFilters(matrix.Fields())
	if err != nil {
		return err
	}
	grouped, err := matrix.GroupBy(pivot, fixed)
	if err != nil {
		return err
	}

	catalog := service.NewCatalog(slog.Default())
	provider, err := service.ByName(providerName, catalog, service.Options{
		Client: &http.Client{Timeout: viper.GetDuration("timeout")},
	})
	if err != nil {
		return err
	}

	joined, err := qtempo.Join(ctx, grouped, provider)
	if err != nil {
		return err
	}
	slog.Info("joined boundary features", "provider", provider.ShortName(), "matched", len(joined.Rows))

	payload, err := json.Marshal(joined.FeatureCollection())
	if err != nil {
		return err
	}
	if outPath == "-" {
		_, err = os.Stdout.Write(append(payload, '\n'))
		return err
	}
	return os.WriteFile(outPath, payload, 0o644)
}

// parseFixFilters resolves each --fix field=value pair against the matrix
// fields.
func parseFixFilters(fields qtempo.FieldSet) (map[qtempo.Field]string, error) {
	fixed := make(map[qtempo.Field]string, len(fixFilters))
	for _, raw := range fixFilters {
		name, value, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --fix %q; expected field=value", raw)
		}
		f, err := fields.ByName(name)
		if err != nil {
			return nil, err
		}
		fixed[f] = value
	}
	return fixed, nil
}
