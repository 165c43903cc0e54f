package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"focustimer/internal/tasks"
)

const dueDateLayout = "2006-01-02"

func (app *App) newTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Manage the task list",
	}
	cmd.AddCommand(
		app.newTasksListCmd(),
		&cobra.Command{
			Use:   "add <text>",
			Short: "Add a task to the top of the list",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				list, err := app.taskList()
				if err != nil {
					return err
				}
				task, err := list.Add(strings.Join(args, " "))
				if err != nil {
					return err
				}
				app.printf("added %d\n", task.ID)
				return nil
			},
		},
		app.taskIDCmd("done <id>", "Toggle a task between open and done", func(list *tasks.List, id int64, _ []string) (tasks.Task, error) {
			return list.Toggle(id)
		}, 0),
		app.taskIDCmd("note <id> <notes>", "Replace a task's notes", func(list *tasks.List, id int64, rest []string) (tasks.Task, error) {
			return list.SetNotes(id, strings.Join(rest, " "))
		}, 1),
		app.taskIDCmd("rename <id> <text>", "Change a task's text", func(list *tasks.List, id int64, rest []string) (tasks.Task, error) {
			return list.SetText(id, strings.Join(rest, " "))
		}, 1),
		app.taskIDCmd("due <id> <YYYY-MM-DD|none>", "Set or clear a task's due date", func(list *tasks.List, id int64, rest []string) (tasks.Task, error) {
			if strings.EqualFold(rest[0], "none") {
				return list.SetDueDate(id, nil)
			}
			due, err := time.Parse(dueDateLayout, rest[0])
			if err != nil {
				return tasks.Task{}, fmt.Errorf("due date %q: want YYYY-MM-DD", rest[0])
			}
			return list.SetDueDate(id, &due)
		}, 1),
		&cobra.Command{
			Use:     "rm <id>",
			Aliases: []string{"delete"},
			Short:   "Delete a task",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseTaskID(args[0])
				if err != nil {
					return err
				}
				list, err := app.taskList()
				if err != nil {
					return err
				}
				if err := list.Delete(id); err != nil {
					return err
				}
				app.printf("deleted %d\n", id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "templates",
			Short: "Print suggested task texts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				localizer, err := app.i18n()
				if err != nil {
					return err
				}
				for _, template := range localizer.TaskTemplates() {
					app.printf("%s\n", template)
				}
				return nil
			},
		},
	)
	return cmd
}

func (app *App) newTasksListCmd() *cobra.Command {
	var openOnly bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print the task list, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := app.taskList()
			if err != nil {
				return err
			}
			localizer, err := app.i18n()
			if err != nil {
				return err
			}
			shown := 0
			for _, task := range list.Tasks() {
				if openOnly && task.Completed {
					continue
				}
				mark := " "
				if task.Completed {
					mark = "x"
				}
				line := fmt.Sprintf("[%s] %d  %s", mark, task.ID, task.Text)
				if task.DueDate != nil {
					line += "  (" + localizer.T("task.due_on", localizer.Date(*task.DueDate)) + ")"
				}
				app.printf("%s\n", line)
				if task.Notes != "" {
					app.printf("      %s\n", task.Notes)
				}
				shown++
			}
			if shown == 0 {
				app.printf("%s\n", localizer.T("task.empty"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&openOnly, "open", false, "hide completed tasks")
	return cmd
}

type taskAction func(list *tasks.List, id int64, rest []string) (tasks.Task, error)

// taskIDCmd builds a command taking a task ID and at least minRest more args.
func (app *App) taskIDCmd(use, short string, action taskAction, minRest int) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1 + minRest),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			list, err := app.taskList()
			if err != nil {
				return err
			}
			task, err := action(list, id, args[1:])
			if err != nil {
				return err
			}
			state := "open"
			if task.Completed {
				state = "done"
			}
			app.printf("%d %s: %s\n", task.ID, state, task.Text)
			return nil
		},
	}
}

func parseTaskID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("task id %q is not a number", value)
	}
	return id, nil
}
