package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tgienger/postit/internal/models"
	"github.com/tgienger/postit/internal/ui"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var verboseFlag bool
	var filterFlag string

	ctx := newCommandContext(&configFlag, &verboseFlag)

	rootCmd := &cobra.Command{
		Use:           "postit",
		Short:         "Sticky-note task manager",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(cmd, ctx, filterFlag)
		},
	}
	rootCmd.SetVersionTemplate(versionLine() + "\n")

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Also write logs to stderr")
	rootCmd.Flags().StringVarP(&filterFlag, "filter", "f", "", "Initial task filter (all, pending, completed)")

	rootCmd.AddCommand(newProjectsCommand(ctx))
	rootCmd.AddCommand(newTasksCommand(ctx))
	rootCmd.AddCommand(newExportCommand(ctx))
	rootCmd.AddCommand(newImportCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func runBoard(cmd *cobra.Command, ctx *commandContext, filterFlag string) error {
	sess, err := ctx.openSession(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer sess.Close()

	filter := sess.cfg.DefaultFilter()
	if strings.TrimSpace(filterFlag) != "" {
		if filter, err = models.ParseFilter(filterFlag); err != nil {
			return err
		}
	}

	model := ui.NewApp(cmd.Context(), sess.svc, ui.Options{Filter: filter, Logger: sess.logger})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run board: %w", err)
	}
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), versionLine())
			return nil
		},
	}
}

func versionLine() string {
	return fmt.Sprintf("postit %s (commit: %s, built: %s)", version, commit, date)
}
