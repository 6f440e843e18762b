package main

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/classroom-client/internal/models"
)

func (c *cli) loginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login EMAIL",
		Short: "Log in and cache the session token",
		Long: `Log in with email and password. The password is read from --password
or, when the flag is omitted, from the first line of stdin.

A successful login clears the locally cached classroom list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			result, err := c.app.Auth.Login(cmd.Context(), models.LoginRequest{Email: args[0], Password: password})
			if err != nil {
				return err
			}
			if c.asJSON {
				return printJSON(cmd.OutOrStdout(), result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", result.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the session token and joined classrooms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session and cache status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			status := c.app.Auth.Status(ctx)
			joined := len(c.app.Classrooms.Load(ctx))
			snapshot := c.app.Metrics.Snapshot()

			if c.asJSON {
				return printJSON(cmd.OutOrStdout(), map[string]interface{}{
					"session":    status,
					"classrooms": joined,
					"store":      c.cfg.Store.Backend,
					"metrics":    snapshot,
				})
			}

			out := cmd.OutOrStdout()
			if !status.Authenticated {
				fmt.Fprintln(out, "Session:    logged out")
			} else {
				fmt.Fprintln(out, "Session:    logged in")
				if status.Email != "" {
					fmt.Fprintf(out, "Email:      %s\n", status.Email)
				}
				if status.ExpiresAt != nil {
					state := "valid"
					if status.Expired {
						state = "expired"
					}
					fmt.Fprintf(out, "Expires:    %s (%s)\n", status.ExpiresAt.Format(time.RFC3339), state)
				}
			}
			fmt.Fprintf(out, "Classrooms: %d\n", joined)
			fmt.Fprintf(out, "Store:      %s\n", c.cfg.Store.Backend)
			fmt.Fprintf(out, "Goroutines: %d\n", snapshot.Goroutines)
			return nil
		},
	}
}
