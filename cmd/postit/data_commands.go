package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tgienger/postit/internal/app"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write all tasks and projects as JSON (stdout when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *app.Service) error {
				if len(args) == 0 || args[0] == "-" {
					return svc.Export(cmd.OutOrStdout())
				}

				target := args[0]
				if dir := filepath.Dir(target); dir != "." {
					if err := os.MkdirAll(dir, 0o755); err != nil {
						return fmt.Errorf("create export directory: %w", err)
					}
				}
				file, err := os.Create(target)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				if err := svc.Export(file); err != nil {
					file.Close()
					return err
				}
				if err := file.Close(); err != nil {
					return fmt.Errorf("close export file: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d projects and %d tasks to %s\n",
					len(svc.Projects()), countTasks(svc), target)
				return nil
			})
		},
	}
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all tasks and projects with an exported JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open import file: %w", err)
			}
			defer file.Close()

			return ctx.withService(cmd, func(svc *app.Service) error {
				snap, err := svc.Import(cmd.Context(), file)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d projects and %d tasks\n", len(snap.Projects), len(snap.Tasks))
				return nil
			})
		},
	}
}

func countTasks(svc *app.Service) int {
	n := 0
	for _, p := range svc.Projects() {
		total, _ := svc.Stats(p.ID)
		n += total
	}
	return n
}
