package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/noah-isme/classroom-client/internal/models"
	"github.com/noah-isme/classroom-client/internal/service"
	"github.com/noah-isme/classroom-client/pkg/export"
)

func (c *cli) joinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join CODE",
		Short: "Join a classroom by its class code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			joined, err := c.app.Classrooms.Join(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if c.asJSON {
				return printJSON(cmd.OutOrStdout(), joined)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Joined %s (%s, code %s)\n", joined.Name, joined.Section, joined.Code)
			return nil
		},
	}
}

func (c *cli) leaveCmd() *cobra.Command {
	var byCode bool

	cmd := &cobra.Command{
		Use:   "leave ID",
		Short: "Remove a classroom from the local list",
		Long: `Remove a joined classroom from the local list. The argument is the
classroom id, or its class code with --code. The remote service is not told.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				remaining []models.Classroom
				err       error
			)
			if byCode {
				remaining, err = c.app.Classrooms.RemoveByCode(cmd.Context(), args[0])
			} else {
				remaining, err = c.app.Classrooms.RemoveByID(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			if c.asJSON {
				return printJSON(cmd.OutOrStdout(), remaining)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Left %s, %d classroom(s) remaining\n", args[0], len(remaining))
			return nil
		},
	}

	cmd.Flags().BoolVar(&byCode, "code", false, "Match the argument against class codes")
	return cmd
}

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List joined classrooms",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items := c.app.Classrooms.Load(cmd.Context())
			if c.asJSON {
				return printJSON(cmd.OutOrStdout(), items)
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No classrooms joined yet. Use \"classroom join CODE\".")
				return nil
			}
			return writeClassrooms(cmd.OutOrStdout(), items)
		},
	}
}

func (c *cli) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show classroom detail and roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := c.app.Classrooms.Detail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if c.asJSON {
				return printJSON(cmd.OutOrStdout(), detail)
			}

			out := cmd.OutOrStdout()
			room := detail.Classroom
			if detail.Stale {
				fmt.Fprintln(out, "(offline: showing cached classroom)")
			}
			fmt.Fprintf(out, "%s - %s\n", room.Name, room.Section)
			fmt.Fprintf(out, "Lecturer: %s\n", room.Lecturer)
			fmt.Fprintf(out, "Schedule: %s %s, %s\n", room.Day, room.Time, room.Room)
			fmt.Fprintf(out, "Term:     %s %s\n", room.YearTerm, room.Term)
			fmt.Fprintf(out, "Code:     %s\n", room.Code)
			if len(detail.Students) == 0 {
				return nil
			}

			fmt.Fprintln(out)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NO\tNAME\tEMAIL")
			for i, s := range detail.Students {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, s.Name, s.Email)
			}
			return tw.Flush()
		},
	}
}

func (c *cli) assignmentsCmd() *cobra.Command {
	var submissions bool

	cmd := &cobra.Command{
		Use:   "assignments ID",
		Short: "List classroom assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := c.app.Classrooms.Assignments(cmd.Context(), args[0], submissions)
			if err != nil {
				return err
			}
			if c.asJSON {
				return printJSON(cmd.OutOrStdout(), items)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tDUE\tPOINTS\tSTATUS")
			for _, a := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%s\n", a.ID, a.Title, a.DueDate, a.Points, a.Status)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&submissions, "submissions", false, "List submission assignments instead of practice")
	return cmd
}

func (c *cli) materialsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "materials ID",
		Short: "List classroom materials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := c.app.Classrooms.Materials(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if c.asJSON {
				return printJSON(cmd.OutOrStdout(), items)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TITLE\tTYPE\tURL")
			for _, m := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Title, m.Type, m.URL)
			}
			return tw.Flush()
		},
	}
}

func (c *cli) exportCmd() *cobra.Command {
	var (
		format string
		roster string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export joined classrooms or a roster to CSV, PDF or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				result *service.ExportResult
				err    error
			)
			if roster != "" {
				result, err = c.app.Exports.Roster(cmd.Context(), roster, format)
			} else {
				result, err = c.app.Exports.Classrooms(cmd.Context(), format)
			}
			if err != nil {
				return err
			}

			if outDir == "-" {
				_, err := cmd.OutOrStdout().Write(result.Data)
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			path := filepath.Join(outDir, result.Filename)
			if err := os.WriteFile(path, result.Data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", export.FormatCSV, "Output format (csv, pdf, yaml)")
	cmd.Flags().StringVar(&roster, "roster", "", "Export the roster of this classroom id instead of the joined list")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Output directory, or - for stdout")
	return cmd
}

func writeClassrooms(w io.Writer, items []models.Classroom) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSECTION\tLECTURER\tDAY\tTIME\tROOM\tCODE")
	for _, c := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Section, c.Lecturer, c.Day, c.Time, c.Room, c.Code)
	}
	return tw.Flush()
}
