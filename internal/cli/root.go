package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"retrievex-cli/internal/api"
	"retrievex-cli/internal/format"
	"retrievex-cli/internal/session"
	"retrievex-cli/internal/store"
	"retrievex-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	ServerURL  string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "retrievex",
		Short:        "RetrieveX terminal client (TUI + scriptable CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive client
  retrievex

  # Scriptable commands
  retrievex login --username alice --password 'S3cret!'
  retrievex notebooks list
  retrievex ask --notebook 3 "What does the compliance policy say about retention?"
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.ServerURL, "server", envOr("RETRIEVEX_SERVER", ""), "Backend base URL (default: config, then "+api.DefaultServerURL+")")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("RETRIEVEX_FORMAT", "json"), "Output format (json)")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newSignupCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newNotebooksCmd(app))
	cmd.AddCommand(newAskCmd(app))
	cmd.AddCommand(newHistoryCmd(app))
	cmd.AddCommand(newActivityCmd(app))

	return cmd
}

func runTUI(app *App) error {
	cfg, err := store.LoadConfig()
	if err != nil {
		return err
	}
	return tui.Run(newClient(app, cfg), cfg)
}

// newClient resolves the server URL: flag/env first, then config, then the
// compiled default.
func newClient(app *App, cfg *store.GlobalConfig) *api.Client {
	url := strings.TrimSpace(app.ServerURL)
	if url == "" && cfg != nil {
		url = cfg.ServerURL
	}
	return api.New(url)
}

// loadSession restores and validates the persisted session. ok is false when
// there is no usable session (the caller decides whether that is an error).
func loadSession(ctx context.Context, app *App) (*session.Store, *api.Client, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	client := newClient(app, cfg)
	sess := session.NewStore()
	if err := sess.Init(ctx, client); err != nil {
		return nil, nil, err
	}
	return sess, client, nil
}

func requireSession(ctx context.Context, app *App) (*session.Store, *api.Client, error) {
	sess, client, err := loadSession(ctx, app)
	if err != nil {
		return nil, nil, err
	}
	if !sess.Authenticated() {
		return nil, nil, errors.New("not logged in; run `retrievex login` first")
	}
	return sess, client, nil
}

// recordActivity appends to the local activity log, best-effort: CLI commands
// never fail because bookkeeping did.
func recordActivity(ctx context.Context, activityType string, data map[string]any) {
	log, err := store.OpenActivityLog(ctx)
	if err != nil {
		return
	}
	defer log.Close()
	_ = log.Append(ctx, activityType, data)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
