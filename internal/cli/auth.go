package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nutriscan/nutriscan/internal/model"
)

func newLoginCmd(app *App) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login <google|apple>",
		Short: "Sign in with a Google or Apple OAuth token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if token == "" {
				t, err := promptToken(cmd)
				if err != nil {
					return err
				}
				token = t
			}

			var sess *model.Session
			var err error
			switch model.Provider(args[0]) {
			case model.ProviderGoogle:
				sess, err = app.API.LoginWithGoogle(ctx, token)
			case model.ProviderApple:
				sess, err = app.API.LoginWithApple(ctx, token, nil)
			default:
				return fmt.Errorf("unknown provider %q, want google or apple", args[0])
			}
			if err != nil {
				return err
			}

			if err := app.Session.Login(*sess); err != nil {
				return err
			}
			app.Cache.Clear()

			fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s <%s>\n", sess.User.Name, sess.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "OAuth token (prompted without echo if omitted)")
	return cmd
}

// promptToken reads a token without echoing it when stdin is a terminal, and
// falls back to a plain line read otherwise (pipes, tests).
func promptToken(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), "token: ")

	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", fmt.Errorf("read token: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}

	r := bufio.NewReader(cmd.InOrStdin())
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Session.Logout(); err != nil {
				return err
			}
			app.Cache.Clear()
			fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if remote {
				user, err := app.API.FetchUser(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s <%s>\n", user.Name, user.Email)
				return nil
			}

			user := app.Session.CurrentUser()
			if user == nil {
				return fmt.Errorf("not signed in, run: nutriscan login")
			}
			fmt.Fprintf(out, "%s <%s>\n", user.Name, user.Email)

			if info, err := app.Session.TokenInfo(); err == nil && !info.ExpiresAt.IsZero() {
				if info.Expired(time.Now()) {
					fmt.Fprintln(out, "session expired, sign in again")
				} else {
					fmt.Fprintf(out, "session expires %s\n", info.ExpiresAt.Format(time.RFC3339))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "fetch the user record from the backend")
	return cmd
}
