package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/drillsergeant/internal/app"
	"github.com/abhisek/drillsergeant/internal/logging"
	"github.com/abhisek/drillsergeant/internal/store"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a drill in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func init() {
	playCmd.Flags().String("exam-date", "", "Exam date (YYYY-MM-DD) to pre-fill")
}

func runPlay(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var exam time.Time
	if f := cmd.Flags().Lookup("exam-date"); f != nil && f.Value.String() != "" {
		if exam, err = time.Parse("2006-01-02", f.Value.String()); err != nil {
			return fmt.Errorf("invalid --exam-date %q: want YYYY-MM-DD", f.Value.String())
		}
	}

	// Logs go next to the event log; stderr belongs to the TUI.
	logger := zap.NewNop()
	dbPath := cfg.DB.Path
	if dbPath == "" {
		dbPath, _ = store.DefaultDBPath()
	}
	if dbPath != "" && dbPath != ":memory:" {
		if l, err := logging.NewTo(cfg.Log.Level, cfg.Log.Format, filepath.Join(filepath.Dir(dbPath), "drill.log")); err == nil {
			logger = l
			defer func() { _ = logger.Sync() }()
		}
	}

	svcs, err := buildServices(cmd.Context(), cfg, logger, nil)
	if err != nil {
		return err
	}
	defer svcs.Close()

	return app.Run(app.Options{Service: svcs.Session, ExamDate: exam})
}
