package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tradepilot/internal/broker"
)

// addAuthCommands adds authentication commands.
func addAuthCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newLoginCmd(app))
	rootCmd.AddCommand(newLogoutCmd(app))
	rootCmd.AddCommand(newAuthStatusCmd(app))
}

func newLoginCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to Zerodha Kite Connect",
		Long: `Login to Zerodha Kite Connect.

Visit the printed login URL in a browser, authorize the app, and pass
the request_token from the redirect back with --token.`,
		Example: `  tradepilot login
  tradepilot login --token=<request_token>`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			if app.Broker == nil {
				output.Error("Broker not configured. Please check your credentials.toml")
				return fmt.Errorf("broker not configured")
			}

			if app.Broker.IsAuthenticated() {
				output.Success("✓ Already logged in!")
				return nil
			}

			token, _ := cmd.Flags().GetString("token")
			if token != "" {
				if err := app.Broker.CompleteLogin(ctx, token); err != nil {
					output.Error("Login failed: %v", err)
					return err
				}
				output.Success("✓ Login successful!")
				return nil
			}

			zb, ok := app.Broker.(*broker.Zerodha)
			if !ok {
				return fmt.Errorf("broker does not support interactive login")
			}
			output.Info("Please visit the login URL and authorize:")
			output.Println(zb.LoginURL())
			output.Println()
			output.Dim("Then run: tradepilot login --token=<request_token>")
			return nil
		},
	}

	cmd.Flags().String("token", "", "request token from the Kite redirect URL")

	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Logout and invalidate the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if app.Broker == nil {
				output.Error("Broker not configured.")
				return fmt.Errorf("broker not configured")
			}

			if err := app.Broker.Logout(cmd.Context()); err != nil {
				output.Error("Logout failed: %v", err)
				return err
			}
			output.Success("✓ Logged out")
			return nil
		},
	}
}

func newAuthStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)

			authenticated := app.Broker != nil && app.Broker.IsAuthenticated()
			if output.IsJSON() {
				output.JSON(map[string]bool{"authenticated": authenticated})
				return
			}
			if authenticated {
				output.Success("✓ Authenticated")
			} else {
				output.Warning("Not authenticated. Run 'tradepilot login'.")
			}
		},
	}
}
