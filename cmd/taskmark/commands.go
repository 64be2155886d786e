package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/taskmark/internal/parser"
	"github.com/sandeepkv93/taskmark/internal/storage"
	"github.com/sandeepkv93/taskmark/internal/store"
)

func addCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task without opening the UI",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*opts)
			if err != nil {
				return err
			}
			defer a.Close()

			st := store.New()
			task, ok := st.AddTask(strings.Join(args, " "), nil)
			if !ok {
				return fmt.Errorf("task text is empty")
			}
			if err := a.repo.CreateTask(cmd.Context(), storage.TaskFromModel(task)); err != nil {
				return fmt.Errorf("save task: %w", err)
			}
			a.logger.Info("task created", "task_id", task.ID, "source", "cli")
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", task.ID, task.Text)
			return nil
		},
	}
}

func listCmd(opts *globalOptions) *cobra.Command {
	var state, tag string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored tasks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch state {
			case "", storage.StatePending, storage.StateCompleted:
			default:
				return fmt.Errorf("invalid --state %q: want pending or completed", state)
			}
			a, err := openApp(*opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if tag != "" && !strings.HasPrefix(tag, "#") {
				tag = "#" + tag
			}
			tasks, err := a.repo.ListTasks(cmd.Context(), storage.TaskListFilter{
				State:    state,
				Category: tag,
				Limit:    limit,
				Offset:   offset,
			})
			if err != nil {
				return fmt.Errorf("list tasks: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "(no tasks)")
				return nil
			}
			for i, t := range tasks {
				box := "[ ]"
				if t.Completed {
					box = "[x]"
				}
				fmt.Fprintf(out, "%d. %s %s  (%s)\n", i+1+offset, box, t.Text, t.ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&state, "state", "", "pending or completed")
	cmd.Flags().StringVar(&tag, "tag", "", "only tasks with this #category")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of tasks")
	cmd.Flags().IntVar(&offset, "offset", 0, "tasks to skip")
	return cmd
}

func categoriesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Show #categories by number of tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*opts)
			if err != nil {
				return err
			}
			defer a.Close()

			cats, err := a.repo.ListCategories(cmd.Context())
			if err != nil {
				return fmt.Errorf("list categories: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, c := range cats {
				fmt.Fprintf(out, "%-24s %d\n", c.Name, c.Tasks)
			}
			return nil
		},
	}
}

func renderCmd() *cobra.Command {
	var mode string
	var safe bool
	cmd := &cobra.Command{
		Use:   "render <text>",
		Short: "Print the markup produced for text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := parser.Mode(strings.ToLower(mode))
			if m != parser.ModeDisplay && m != parser.ModeEdit {
				return fmt.Errorf("invalid --mode %q: want display or edit", mode)
			}
			text := strings.Join(args, " ")
			out := parser.Render(text, m)
			if safe {
				out = parser.RenderSafe(text, m)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(parser.ModeDisplay), "display or edit")
	cmd.Flags().BoolVar(&safe, "safe", false, "sanitize the markup before printing")
	return cmd
}
