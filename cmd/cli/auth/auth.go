package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/assetflow/assetflow/cmd/cli/config"
)

// InitAuth registers login/logout on the root command.
func InitAuth(rootCmd *cobra.Command) {
	rootCmd.AddCommand(loginCmd(), logoutCmd())
}

func loginCmd() *cobra.Command {
	var username string
	var password string
	var email string
	var register bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the AssetFlow API",
		Long:  "Authenticate with the AssetFlow API and store a JWT token for subsequent CLI commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return fmt.Errorf("username and password are required")
			}

			client := http.DefaultClient

			if register {
				if email == "" {
					return fmt.Errorf("email is required when registering")
				}
				payload := map[string]string{"username": username, "email": email, "password": password}
				if err := callJSONEndpoint(client, "/auth/register", payload, nil); err != nil {
					return fmt.Errorf("failed to register user: %w", err)
				}
			}

			var loginResp struct {
				Token string `json:"token"`
			}
			payload := map[string]string{"username": username, "password": password}
			if err := callJSONEndpoint(client, "/auth/login", payload, &loginResp); err != nil {
				return fmt.Errorf("failed to login: %w", err)
			}
			if loginResp.Token == "" {
				return fmt.Errorf("login succeeded but no token returned")
			}

			if err := config.SaveToken(loginResp.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			fmt.Println("Login successful. Token stored locally.")
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username to authenticate as")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	cmd.Flags().StringVar(&email, "email", "", "Email (only used with --register)")
	cmd.Flags().BoolVar(&register, "register", false, "Register the user before logging in")

	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the locally stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ClearToken(); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func callJSONEndpoint(client *http.Client, path string, payload interface{}, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", config.APIURL()+path, bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return err
		}
	}

	return nil
}
