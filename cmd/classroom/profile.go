package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *cli) profileCmd() *cobra.Command {
	var name, image string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the cached profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var namePtr, imagePtr *string
			if cmd.Flags().Changed("name") {
				namePtr = &name
			}
			if cmd.Flags().Changed("image") {
				imagePtr = &image
			}

			profile, err := c.app.Profiles.Update(cmd.Context(), namePtr, imagePtr)
			if err != nil {
				return err
			}
			if c.asJSON {
				return printJSON(cmd.OutOrStdout(), profile)
			}

			out := cmd.OutOrStdout()
			display := profile.Name
			if display == "" {
				display = "(not set)"
			}
			fmt.Fprintf(out, "Name:       %s\n", display)
			if profile.Image != "" {
				fmt.Fprintf(out, "Image:      %s\n", profile.Image)
			}
			fmt.Fprintf(out, "Theme:      %s\n", profile.Theme)
			fmt.Fprintf(out, "Classrooms: %d\n", profile.JoinedClassrooms)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Set the display name")
	cmd.Flags().StringVar(&image, "image", "", "Set the profile image URI")
	return cmd
}

func (c *cli) themeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the theme preference",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			theme := c.app.Profiles.Theme(ctx)

			if len(args) == 1 {
				var err error
				switch strings.ToLower(strings.TrimSpace(args[0])) {
				case "toggle":
					theme, err = c.app.Profiles.ToggleTheme(ctx)
				default:
					err = c.app.Profiles.SetTheme(ctx, args[0])
					theme = c.app.Profiles.Theme(ctx)
				}
				if err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), theme)
			return nil
		},
	}
}
