package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/alecsandrei/QTempo/tempo"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "qtempo",
	Short: "Query INS Tempo-Online statistics and join them to boundary polygons",
	Long: "qtempo navigates the INS Tempo-Online table of contents, fetches data\n" +
		"matrices, pivots them by geography and joins the result against\n" +
		"administrative boundary polygons from ANCPI or GISCO.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.qtempo.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().String("base-url", tempo.DefaultBaseURL, "Tempo API base URL")
	rootCmd.PersistentFlags().String("lang", tempo.LangRO, "API language (ro or en)")
	rootCmd.PersistentFlags().Duration("timeout", 120*time.Second, "HTTP timeout")
	_ = viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	_ = viper.BindPFlag("lang", rootCmd.PersistentFlags().Lookup("lang"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))

	rootCmd.AddCommand(tocCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(mapCmd)
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".qtempo")
			viper.SetConfigType("yaml")
		}
	}
	viper.SetEnvPrefix("QTEMPO")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		// Missing config files are fine; anything else is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return err
		}
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

func newTempoClient() *tempo.Client {
	return tempo.NewClient(tempo.Options{
		BaseURL:  viper.GetString("base_url"),
		Language: viper.GetString("lang"),
		Client:   &http.Client{Timeout: viper.GetDuration("timeout")},
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
