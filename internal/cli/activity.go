package cli

import (
	"retrievex-cli/internal/store"

	"github.com/spf13/cobra"
)

func newActivityCmd(app *App) *cobra.Command {
	var (
		limit  int
		remote bool
	)

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show recorded activity (local log, or the server's with --remote)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if remote {
				sess, client, err := requireSession(cmd.Context(), app)
				if err != nil {
					return writeErr(cmd, err)
				}
				acts, err := client.MyActivities(cmd.Context(), sess.Token(), limit)
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{"data": acts})
			}

			log, err := store.OpenActivityLog(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer log.Close()
			acts, err := log.Recent(cmd.Context(), limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": acts})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 100, "Max entries")
	cmd.Flags().BoolVar(&remote, "remote", false, "Read the server-side activity log")
	return cmd
}
