package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tgienger/postit/internal/app"
	"github.com/tgienger/postit/internal/models"
)

func newProjectsCommand(ctx *commandContext) *cobra.Command {
	projectsCmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project", "p"},
		Short:   "Manage projects",
	}

	projectsCmd.AddCommand(newProjectsListCommand(ctx))
	projectsCmd.AddCommand(newProjectsAddCommand(ctx))
	projectsCmd.AddCommand(newProjectsEditCommand(ctx))
	projectsCmd.AddCommand(newProjectsDuplicateCommand(ctx))
	projectsCmd.AddCommand(newProjectsRemoveCommand(ctx))
	projectsCmd.AddCommand(newProjectsUseCommand(ctx))

	return projectsCmd
}

func newProjectsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *app.Service) error {
				p := newPrinter(cmd.OutOrStdout())
				active, hasActive := svc.ActiveProject()

				var rows [][]string
				for _, project := range svc.Projects() {
					total, done := svc.Stats(project.ID)
					marker := ""
					if hasActive && project.ID == active.ID {
						marker = "*"
					}
					rows = append(rows, []string{
						marker,
						strconv.FormatInt(project.ID, 10),
						project.Name,
						p.color(project.Color),
						strconv.Itoa(total),
						strconv.Itoa(done),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"", "ID", "Name", "Color", "Tasks", "Done"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignRight},
				))
				return nil
			})
		},
	}
}

func newProjectsAddCommand(ctx *commandContext) *cobra.Command {
	var color string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *app.Service) error {
				project, err := svc.AddProject(cmd.Context(), models.ProjectFields{
					Name:  strings.Join(args, " "),
					Color: models.Color(strings.ToLower(strings.TrimSpace(color))),
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created project %d: %s\n", project.ID, project.Name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&color, "color", "", "Color tag (blue, green, yellow, red, purple, orange, pink, gray)")
	return cmd
}

func newProjectsEditCommand(ctx *commandContext) *cobra.Command {
	var name, color string
	cmd := &cobra.Command{
		Use:   "edit <project>",
		Short: "Rename or recolor a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch models.ProjectPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("color") {
				patch.Color = models.Ptr(models.Color(strings.ToLower(strings.TrimSpace(color))))
			}
			if patch.Name == nil && patch.Color == nil {
				return fmt.Errorf("nothing to change: pass --name or --color")
			}
			return ctx.withService(cmd, func(svc *app.Service) error {
				project, err := svc.FindProject(args[0])
				if err != nil {
					return err
				}
				project, err = svc.EditProject(cmd.Context(), project.ID, patch)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated project %d: %s (%s)\n", project.ID, project.Name, project.Color)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&color, "color", "", "New color tag")
	return cmd
}

func newProjectsDuplicateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "dup <project>",
		Aliases: []string{"duplicate", "copy"},
		Short:   "Copy a project together with its tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *app.Service) error {
				src, err := svc.FindProject(args[0])
				if err != nil {
					return err
				}
				project, err := svc.DuplicateProject(cmd.Context(), src.ID)
				if err != nil {
					return err
				}
				total, _ := svc.Stats(project.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "Created project %d: %s with %d tasks\n", project.ID, project.Name, total)
				return nil
			})
		},
	}
}

func newProjectsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <project>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a project and all of its tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *app.Service) error {
				project, err := svc.FindProject(args[0])
				if err != nil {
					return err
				}
				total, _ := svc.Stats(project.ID)
				if err := svc.DeleteProject(cmd.Context(), project.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %d: %s (%d tasks)\n", project.ID, project.Name, total)
				return nil
			})
		},
	}
}

func newProjectsUseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "use <project>",
		Short: "Make a project the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *app.Service) error {
				project, err := svc.FindProject(args[0])
				if err != nil {
					return err
				}
				if _, err := svc.SelectProject(cmd.Context(), project.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Active project: %s\n", project.Name)
				return nil
			})
		},
	}
}
