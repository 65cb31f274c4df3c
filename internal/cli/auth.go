package cli

import (
	"errors"
	"strings"

	"retrievex-cli/internal/api"
	"retrievex-cli/internal/session"
	"retrievex-cli/internal/store"

	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	var (
		username    string
		password    string
		googleToken string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and persist the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			client := newClient(app, cfg)

			var res api.AuthResult
			switch {
			case strings.TrimSpace(googleToken) != "":
				res, err = client.GoogleLogin(cmd.Context(), googleToken)
			case username != "" && password != "":
				res, err = client.Login(cmd.Context(), username, password)
			default:
				return writeErr(cmd, errors.New("provide --username and --password, or --google-token"))
			}
			if err != nil {
				return writeErr(cmd, err)
			}

			sess := session.NewStore()
			navTo, err := sess.Login(res.SessionID)
			if err != nil {
				return writeErr(cmd, err)
			}
			recordActivity(cmd.Context(), "login", map[string]any{"username": res.Username})
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"username":    res.Username,
				"user_id":     res.UserID,
				"navigate_to": navTo,
			}})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	cmd.Flags().StringVar(&googleToken, "google-token", "", "Google ID token (federated login)")
	return cmd
}

func newSignupCmd(app *App) *cobra.Command {
	var (
		username string
		password string
		email    string
	)

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account (auto-logs-in on success)",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Courtesy pre-check; the server validates again.
			if err := session.CheckPasswordStrength(password); err != nil {
				return writeErr(cmd, err)
			}

			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			client := newClient(app, cfg)
			res, err := client.Signup(cmd.Context(), username, password, email)
			if err != nil {
				return writeErr(cmd, err)
			}

			sess := session.NewStore()
			navTo, err := sess.Login(res.SessionID)
			if err != nil {
				return writeErr(cmd, err)
			}
			recordActivity(cmd.Context(), "signup", map[string]any{"username": res.Username})
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"username":    res.Username,
				"user_id":     res.UserID,
				"navigate_to": navTo,
			}})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	cmd.Flags().StringVar(&email, "email", "", "Email (optional)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			client := newClient(app, cfg)

			// Best-effort server-side invalidation; local logout happens regardless.
			if cfg.SessionToken != "" {
				_ = client.Logout(cmd.Context(), cfg.SessionToken)
			}

			sess := session.NewStore()
			navTo, err := sess.Logout()
			if err != nil {
				return writeErr(cmd, err)
			}
			recordActivity(cmd.Context(), "logout", nil)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"navigate_to": navTo}})
		},
	}
	return cmd
}

func newWhoamiCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the validated session identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := requireSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": sess.User()})
		},
	}
	return cmd
}
