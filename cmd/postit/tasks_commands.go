package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tgienger/postit/internal/app"
	"github.com/tgienger/postit/internal/models"
)

func newTasksCommand(ctx *commandContext) *cobra.Command {
	tasksCmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task", "t"},
		Short:   "Manage tasks",
	}

	tasksCmd.AddCommand(newTasksListCommand(ctx))
	tasksCmd.AddCommand(newTasksAddCommand(ctx))
	tasksCmd.AddCommand(newTasksEditCommand(ctx))
	tasksCmd.AddCommand(newTasksDoneCommand(ctx))
	tasksCmd.AddCommand(newTasksDuplicateCommand(ctx))
	tasksCmd.AddCommand(newTasksRemoveCommand(ctx))
	tasksCmd.AddCommand(newTasksShowCommand(ctx))

	return tasksCmd
}

// taskFlags are the editable task fields shared by add and edit
type taskFlags struct {
	description string
	due         string
	priority    string
	color       string
	project     string
}

func (f *taskFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.description, "desc", "d", "", "Description")
	cmd.Flags().StringVar(&f.due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&f.priority, "priority", "p", "", "Priority (low, medium, high)")
	cmd.Flags().StringVar(&f.color, "color", "", "Color tag")
	cmd.Flags().StringVar(&f.project, "project", "", "Project id or name (default: active project)")
}

// resolveProject returns the project named by ref, or the active project when
// ref is empty.
func resolveProject(svc *app.Service, ref string) (models.Project, error) {
	if strings.TrimSpace(ref) != "" {
		return svc.FindProject(ref)
	}
	project, ok := svc.ActiveProject()
	if !ok {
		return models.Project{}, fmt.Errorf("%w: no active project; create one with `postit projects add`", app.ErrProjectNotFound)
	}
	return project, nil
}

func parsePriorityFlag(value string) (models.Priority, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	p, err := models.ParsePriority(value)
	if err != nil {
		return "", fmt.Errorf("%w: %v", app.ErrInvalidPriority, err)
	}
	return p, nil
}

func newTasksListCommand(ctx *commandContext) *cobra.Command {
	var projectRef, filterFlag string
	var allProjects bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks, highest priority first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *app.Service) error {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				filter := cfg.DefaultFilter()
				if cmd.Flags().Changed("filter") {
					if filter, err = models.ParseFilter(filterFlag); err != nil {
						return err
					}
				}

				var projects []models.Project
				if allProjects {
					projects = svc.Projects()
				} else {
					project, err := resolveProject(svc, projectRef)
					if err != nil {
						return err
					}
					projects = []models.Project{project}
				}

				p := newPrinter(cmd.OutOrStdout())
				var rows [][]string
				for _, project := range projects {
					for _, t := range svc.ProjectTasks(project.ID, filter) {
						rows = append(rows, []string{
							strconv.FormatInt(t.ID, 10),
							p.done(t.Done),
							p.priority(t.Priority),
							t.Title,
							t.DueDate,
							p.color(t.Color),
							project.Name,
						})
					}
				}
				if len(rows) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No %s tasks\n", filter)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Done", "Priority", "Title", "Due", "Color", "Project"},
					rows,
					[]columnAlignment{alignRight},
				))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&projectRef, "project", "", "Project id or name (default: active project)")
	cmd.Flags().StringVarP(&filterFlag, "filter", "f", "", "Filter: all, pending or completed")
	cmd.Flags().BoolVarP(&allProjects, "all", "a", false, "List tasks of every project")
	return cmd
}

func newTasksAddCommand(ctx *commandContext) *cobra.Command {
	var flags taskFlags
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			priority, err := parsePriorityFlag(flags.priority)
			if err != nil {
				return err
			}
			return ctx.withService(cmd, func(svc *app.Service) error {
				project, err := resolveProject(svc, flags.project)
				if err != nil {
					return err
				}
				task, err := svc.AddTask(cmd.Context(), models.TaskFields{
					Title:       strings.Join(args, " "),
					Description: flags.description,
					DueDate:     flags.due,
					Priority:    priority,
					Color:       models.Color(strings.ToLower(strings.TrimSpace(flags.color))),
					ProjectID:   project.ID,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created task %d in %s: %s\n", task.ID, project.Name, task.Title)
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newTasksEditCommand(ctx *commandContext) *cobra.Command {
	var flags taskFlags
	var title string
	cmd := &cobra.Command{
		Use:   "edit <task>",
		Short: "Change fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := cmd.Flags().Changed
			var patch models.TaskPatch
			if changed("title") {
				patch.Title = &title
			}
			if changed("desc") {
				patch.Description = &flags.description
			}
			if changed("due") {
				patch.DueDate = &flags.due
			}
			if changed("priority") {
				priority, err := models.ParsePriority(flags.priority)
				if err != nil {
					return fmt.Errorf("%w: %v", app.ErrInvalidPriority, err)
				}
				patch.Priority = &priority
			}
			if changed("color") {
				patch.Color = models.Ptr(models.Color(strings.ToLower(strings.TrimSpace(flags.color))))
			}
			if patch.Empty() && !changed("project") {
				return fmt.Errorf("nothing to change: pass at least one field flag")
			}

			return ctx.withService(cmd, func(svc *app.Service) error {
				task, err := svc.FindTask(args[0])
				if err != nil {
					return err
				}
				if changed("project") {
					project, err := svc.FindProject(flags.project)
					if err != nil {
						return fmt.Errorf("%w: %v", app.ErrUnknownProject, err)
					}
					patch.ProjectID = &project.ID
				}
				task, err = svc.EditTask(cmd.Context(), task.ID, patch)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated task %d: %s\n", task.ID, task.Title)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	flags.register(cmd)
	return cmd
}

func newTasksDoneCommand(ctx *commandContext) *cobra.Command {
	var undo bool
	cmd := &cobra.Command{
		Use:   "done <task>...",
		Short: "Mark tasks completed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *app.Service) error {
				for _, ref := range args {
					task, err := svc.FindTask(ref)
					if err != nil {
						return err
					}
					if task, err = svc.SetTaskDone(cmd.Context(), task.ID, !undo); err != nil {
						return err
					}
					state := "completed"
					if undo {
						state = "pending"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Task %d %s: %s\n", task.ID, state, task.Title)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the tasks pending again")
	return cmd
}

func newTasksDuplicateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "dup <task>",
		Aliases: []string{"duplicate", "copy"},
		Short:   "Copy a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *app.Service) error {
				src, err := svc.FindTask(args[0])
				if err != nil {
					return err
				}
				task, err := svc.DuplicateTask(cmd.Context(), src.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created task %d: %s\n", task.ID, task.Title)
				return nil
			})
		},
	}
}

func newTasksRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <task>...",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete tasks",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *app.Service) error {
				for _, ref := range args {
					task, err := svc.FindTask(ref)
					if err != nil {
						return err
					}
					if err := svc.DeleteTask(cmd.Context(), task.ID); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d: %s\n", task.ID, task.Title)
				}
				return nil
			})
		},
	}
}

func newTasksShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task>",
		Short: "Show every field of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *app.Service) error {
				task, err := svc.FindTask(args[0])
				if err != nil {
					return err
				}
				projectName := "(missing)"
				if project, err := svc.Project(task.ProjectID); err == nil {
					projectName = project.Name
				}

				p := newPrinter(cmd.OutOrStdout())
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s\n", task.Title)
				fmt.Fprintf(out, "  ID:          %d\n", task.ID)
				fmt.Fprintf(out, "  Project:     %s\n", projectName)
				fmt.Fprintf(out, "  Priority:    %s\n", p.priority(task.Priority))
				fmt.Fprintf(out, "  Color:       %s\n", p.color(task.Color))
				fmt.Fprintf(out, "  Due:         %s\n", task.DueDate)
				fmt.Fprintf(out, "  Completed:   %s\n", yesNo(task.Done))
				fmt.Fprintf(out, "  Created:     %s\n", task.CreatedAt)
				if task.Description != "" {
					fmt.Fprintf(out, "\n%s\n", task.Description)
				}
				return nil
			})
		},
	}
}
