package auth

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/crucial707/catalog/cmd/cli/client"
	"github.com/crucial707/catalog/cmd/cli/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// InitAuth registers register, login and logout on the root command.
func InitAuth(rootCmd *cobra.Command) {
	rootCmd.AddCommand(registerCmd(), loginCmd(), logoutCmd())
}

// ==========================
// Register
// ==========================
func registerCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account on the catalog API",
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordOrPrompt(cmd, password)
			if err != nil {
				return err
			}

			var out struct {
				Message string `json:"message"`
			}
			c := client.New(config.APIURL(), "")
			body := map[string]string{"username": username, "password": pw}
			if _, err := c.Do(cmd.Context(), "POST", "/api/auth/register", body, &out); err != nil {
				return fmt.Errorf("register: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Registered", username)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username to register")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	cmd.MarkFlagRequired("username")
	return cmd
}

// ==========================
// Login
// ==========================

// loginCmd logs in and stores the token locally for subsequent commands.
func loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the catalog API",
		Long:  "Authenticate with the catalog API and store the access token for subsequent CLI commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordOrPrompt(cmd, password)
			if err != nil {
				return err
			}

			var out struct {
				Token     string `json:"token"`
				ExpiresAt string `json:"expires_at"`
			}
			c := client.New(config.APIURL(), "")
			body := map[string]string{"username": username, "password": pw}
			if _, err := c.Do(cmd.Context(), "POST", "/api/auth/login", body, &out); err != nil {
				return fmt.Errorf("login: %w", err)
			}
			if out.Token == "" {
				return errors.New("login succeeded but no token returned")
			}

			if err := config.SaveToken(out.Token); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Login successful. Token valid until %s.\n", out.ExpiresAt)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username to authenticate as")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	cmd.MarkFlagRequired("username")
	return cmd
}

// ==========================
// Logout
// ==========================
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := config.ClearToken()
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintln(cmd.OutOrStdout(), "No user logged in.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out successfully.")
			return nil
		},
	}
}

// passwordOrPrompt returns flagValue, or reads a password from the terminal
// without echo. Piped stdin is read as a single line.
func passwordOrPrompt(cmd *cobra.Command, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}
