package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd(app *App) *cobra.Command {
	var (
		notebook int
		topK     int
	)

	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask a question against a notebook",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, client, err := requireSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			question := strings.TrimSpace(strings.Join(args, " "))
			ans, err := client.Ask(cmd.Context(), sess.Token(), notebook, question, topK)
			if err != nil {
				return writeErr(cmd, err)
			}
			recordActivity(cmd.Context(), "chat_send", map[string]any{"notebook_id": notebook})
			return writeOut(cmd, app, map[string]any{"data": ans})
		},
	}

	cmd.Flags().IntVar(&notebook, "notebook", 0, "Notebook id")
	cmd.Flags().IntVar(&topK, "top-k", 0, "Retrieval depth (0 = server default)")
	_ = cmd.MarkFlagRequired("notebook")
	return cmd
}

func newHistoryCmd(app *App) *cobra.Command {
	var notebook int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show a notebook's stored chat log",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, client, err := requireSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			msgs, err := client.ChatHistory(cmd.Context(), sess.Token(), notebook)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": msgs})
		},
	}

	cmd.Flags().IntVar(&notebook, "notebook", 0, "Notebook id")
	_ = cmd.MarkFlagRequired("notebook")
	return cmd
}
