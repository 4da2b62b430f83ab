package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"quill/internal/models"

	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Browse and edit records",
		Long: `Browse and edit records of the registered entities.

Entities: user, profile, category, post, comment, bookmark, notification.
Plural names work too.`,
	}
	cmd.AddCommand(
		newAdminListCmd(),
		newAdminShowCmd(),
		newAdminEditCmd(),
		newAdminDeleteCmd(),
		newAdminDescribeCmd(),
	)
	return cmd
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		return 0, models.NewValidationError(fmt.Sprintf("invalid id %q", raw))
	}
	return uint(id), nil
}

func newAdminListCmd() *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list <entity>",
		Short: "List records with the entity's display columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ma, err := current.site.Lookup(args[0])
			if err != nil {
				return err
			}
			rows, err := current.site.List(cmd.Context(), ma.Name, limit, offset)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			header := append([]string{"ID"}, ma.ListDisplay...)
			fmt.Fprintln(w, strings.ToUpper(strings.Join(header, "\t")))
			for _, row := range rows {
				fmt.Fprintf(w, "%d\t%s\n", row.ID, strings.Join(row.Values, "\t"))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", len(rows), ma.Plural)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum rows to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "rows to skip")
	return cmd
}

func newAdminShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <entity> <id>",
		Short: "Show every column of a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			record, err := current.site.Get(cmd.Context(), args[0], id)
			if err != nil {
				return err
			}
			return printRecord(cmd, args[0], record)
		},
	}
}

func printRecord(cmd *cobra.Command, entity string, record any) error {
	fields, err := current.site.Fields(cmd.Context(), entity, record)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, f := range fields {
		fmt.Fprintf(w, "%s\t%s\n", f.Name, f.Value)
	}
	return w.Flush()
}

// parseAssignments turns "field=value" arguments into a map. An empty value
// clears optional fields.
func parseAssignments(args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		field, value, ok := strings.Cut(arg, "=")
		if !ok || field == "" {
			return nil, models.NewValidationError(fmt.Sprintf("expected field=value, got %q", arg))
		}
		values[field] = value
	}
	return values, nil
}

func newAdminEditCmd() *cobra.Command {
	var allFields bool
	cmd := &cobra.Command{
		Use:   "edit <entity> <id> field=value...",
		Short: "Change columns of a record",
		Long: `Change columns of a record. Only the entity's list-editable columns
are accepted unless --all-fields is given.`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			values, err := parseAssignments(args[2:])
			if err != nil {
				return err
			}
			update := current.site.UpdateEditable
			if allFields {
				update = current.site.Update
			}
			record, err := update(cmd.Context(), args[0], id, values)
			if err != nil {
				return err
			}
			return printRecord(cmd, args[0], record)
		},
	}
	cmd.Flags().BoolVar(&allFields, "all-fields", false, "allow any updatable column")
	return cmd
}

func newAdminDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <entity> <id>",
		Short: "Delete a record and everything that depends on it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			if err := current.site.Delete(cmd.Context(), args[0], id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s %d\n", args[0], id)
			return nil
		},
	}
}

func newAdminDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Print the admin registry as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := current.site.Describe()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
