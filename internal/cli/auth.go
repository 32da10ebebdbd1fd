package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication commands",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthTokenCmd())
	cmd.AddCommand(newAuthVerifyCmd())
	cmd.AddCommand(newAuthLogoutCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var returnURL string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Print the Steam login redirect URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/auth"
			if returnURL != "" {
				path += "?return_url=" + url.QueryEscape(returnURL)
			}

			var result LoginResult
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&returnURL, "return-url", "", "URL Steam should send the browser back to")

	return cmd
}

// newAuthTokenCmd saves a token captured out-of-band (the browser
// completes the callback, not this tool)
func newAuthTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token <session-token>",
		Short: "Save a session token obtained from the browser callback",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.SaveToken(args[0]); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Token saved.")
			return nil
		},
	}
}

func newAuthVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Verify the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result VerifyResult
			if err := client.Get("/api/auth?action=verify", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result LogoutResult
			if err := client.Get("/api/auth?action=logout", &result); err != nil {
				return err
			}

			if err := cfg.ClearToken(); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
