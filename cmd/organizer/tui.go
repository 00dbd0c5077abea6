package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ogurasousui/employee-organizer/internal/adapters/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newTUICmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var changes chan struct{}
			if w, ok := a.backend.Watcher(); ok {
				changes = make(chan struct{}, 1)
				err := w.Watch(ctx, a.cfg.Storage.WatchDebounce, a.logger, func() {
					select {
					case changes <- struct{}{}:
					default:
					}
				})
				if err != nil {
					a.logger.Warn("storage watch disabled", zap.Error(err))
					changes = nil
				}
			}

			opts := tui.Options{Logger: a.logger, MaxAvatarBytes: a.cfg.Avatar.MaxBytes}
			if changes != nil {
				opts.Changes = changes
			}
			model := tui.New(ctx, a.employees, a.records, a.drafts, opts)

			p := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithContext(ctx),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err := p.Run()
			return err
		},
	}
	cmd.Flags().StringVar(&a.logFile, "log-file", "", "write logs to this file while the UI is running")
	return cmd
}
