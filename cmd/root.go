package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/drillsergeant/internal/config"
	"github.com/abhisek/drillsergeant/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "drill",
	Short: "GRE reading comprehension drill sergeant",
	Long:  "Drill Sergeant: timed GRE reading drills with per-mistake trap diagnosis and a redemption round.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to drill.yaml (default: ./drill.yaml or $XDG_CONFIG_HOME/drill/drill.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite event log (overrides DRILL_DB_PATH)")
	rootCmd.PersistentFlags().String("corpus", "", "Directory of passage JSON files (overrides DRILL_CORPUS_DIR)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(corpusCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads configuration and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DB.Path = v
	}
	if v, _ := cmd.Flags().GetString("corpus"); v != "" {
		cfg.Corpus.Dir = v
	}
	if f := cmd.Flags().Lookup("addr"); f != nil && f.Changed {
		cfg.Server.Addr = f.Value.String()
	}
	return cfg, config.Validate(cfg)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured db.path, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	cfgPath, _ := cmd.Flags().GetString("config")
	if cfg, err := config.Load(cfgPath); err == nil && cfg.DB.Path != "" {
		return cfg.DB.Path, store.EnsureDir(cfg.DB.Path)
	}
	return store.DefaultDBPath()
}
