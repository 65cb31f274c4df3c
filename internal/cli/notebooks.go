package cli

import (
	"errors"
	"strconv"

	"github.com/spf13/cobra"
)

func newNotebooksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notebooks",
		Short: "Notebook commands",
	}
	cmd.AddCommand(newNotebooksListCmd(app))
	cmd.AddCommand(newNotebooksCreateCmd(app))
	cmd.AddCommand(newNotebooksShowCmd(app))
	cmd.AddCommand(newNotebooksRenameCmd(app))
	cmd.AddCommand(newNotebooksDeleteCmd(app))
	cmd.AddCommand(newNotebooksAddFilesCmd(app))
	return cmd
}

func parseNotebookID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, errors.New("notebook id must be a positive integer")
	}
	return id, nil
}

func newNotebooksListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List notebooks",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, client, err := requireSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			nbs, err := client.ListNotebooks(cmd.Context(), sess.Token())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": nbs})
		},
	}
}

func newNotebooksCreateCmd(app *App) *cobra.Command {
	var (
		title string
		files []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a notebook from one batch of files",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, client, err := requireSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			nb, err := client.CreateNotebook(cmd.Context(), sess.Token(), title, files)
			if err != nil {
				return writeErr(cmd, err)
			}
			recordActivity(cmd.Context(), "notebook_create", map[string]any{
				"notebook_id": nb.ID, "title": nb.Title, "files": len(files),
			})
			return writeOut(cmd, app, map[string]any{"data": nb})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Notebook title")
	cmd.Flags().StringSliceVar(&files, "file", nil, "Source file to upload (repeatable)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newNotebooksShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <notebook-id>",
		Short: "Show one notebook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNotebookID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, client, err := requireSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			nb, err := client.GetNotebook(cmd.Context(), sess.Token(), id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": nb})
		},
	}
}

func newNotebooksRenameCmd(app *App) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "rename <notebook-id>",
		Short: "Rename a notebook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNotebookID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, client, err := requireSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			nb, err := client.RenameNotebook(cmd.Context(), sess.Token(), id, title)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": nb})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newNotebooksDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <notebook-id>",
		Short: "Delete a notebook (requires confirmation)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNotebookID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			// Deletion is confirmed before the call is ever issued: in the TUI
			// via the confirm modal, here via an explicit flag.
			if !yes {
				return writeErr(cmd, errors.New("refusing to delete without --yes"))
			}
			sess, client, err := requireSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := client.DeleteNotebook(cmd.Context(), sess.Token(), id); err != nil {
				return writeErr(cmd, err)
			}
			recordActivity(cmd.Context(), "notebook_delete", map[string]any{"notebook_id": id})
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": id}})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}

func newNotebooksAddFilesCmd(app *App) *cobra.Command {
	var files []string

	cmd := &cobra.Command{
		Use:   "add-files <notebook-id>",
		Short: "Append a batch of files to a notebook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNotebookID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if len(files) == 0 {
				return writeErr(cmd, errors.New("provide at least one --file"))
			}
			sess, client, err := requireSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			nb, err := client.AddFiles(cmd.Context(), sess.Token(), id, files)
			if err != nil {
				return writeErr(cmd, err)
			}
			recordActivity(cmd.Context(), "notebook_add_files", map[string]any{
				"notebook_id": id, "files": len(files),
			})
			return writeOut(cmd, app, map[string]any{"data": nb})
		},
	}

	cmd.Flags().StringSliceVar(&files, "file", nil, "Source file to upload (repeatable)")
	return cmd
}
