package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ogurasousui/employee-organizer/internal/core/employee"
	"github.com/ogurasousui/employee-organizer/internal/platform/config"
	"github.com/ogurasousui/employee-organizer/internal/platform/logging"
	"github.com/ogurasousui/employee-organizer/internal/platform/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultConfigPath = "assets/local.yaml"

// app はサブコマンド間で共有する依存関係です。
type app struct {
	configPath string
	logFile    string

	cfg       *config.Config
	logger    *zap.Logger
	backend   *storage.Backend
	records   *employee.RecordStore
	drafts    *employee.DraftStore
	employees *employee.Service
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "organizer",
		Short:         "Employee organizer: records, two-step entry wizard, gRPC/HTTP API and terminal UI",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config file (defaults to CONFIG_PATH env or "+defaultConfigPath+")")

	root.AddCommand(
		newServeCmd(a),
		newTUICmd(a),
		newListCmd(a),
		newViewCmd(a),
		newDeleteCmd(a),
		newClearCmd(a),
		newExportCmd(a),
	)
	return root
}

func effectiveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return defaultConfigPath
}

func (a *app) open(cmd *cobra.Command) error {
	cfg, err := config.Load(effectiveConfigPath(a.configPath))
	if err != nil {
		return err
	}
	a.cfg = cfg

	// 端末 UI は画面を乱さないようファイルにのみ出力します。
	if cmd.Name() == "tui" {
		a.logger, err = logging.NewFileOnly(cfg.Log, a.logFile)
	} else {
		a.logger, err = logging.New(cfg.Log)
	}
	if err != nil {
		return err
	}

	backend, err := storage.Open(cmd.Context(), cfg.Storage, cfg.Database)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	a.backend = backend
	a.records = backend.Records(a.logger)
	a.drafts = backend.Drafts()
	a.employees = employee.NewService(a.records, a.logger)

	a.logger.Debug("storage opened", zap.String("driver", backend.Driver))
	return nil
}

func (a *app) close() error {
	var errs []error
	if a.backend != nil {
		errs = append(errs, a.backend.Close())
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return errors.Join(errs...)
}

// userError は利用者向け文言があればそれを先頭に付けます。
func userError(err error) error {
	if msg := employee.Message(err); msg != "" {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return err
}
