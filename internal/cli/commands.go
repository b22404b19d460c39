package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func listCmd(opts *options) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List employees, optionally filtered by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := opts.client().List(cmd.Context(), query)
			if err != nil {
				return err
			}
			return printEmployees(cmd.OutOrStdout(), list)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Substring of the first or last name")
	return cmd
}

func getCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.client().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printEmployee(cmd.OutOrStdout(), e)
		},
	}
}

func createCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add an employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := formFromFlags(cmd.Flags()).CreateRequest()
			if err != nil {
				return err
			}
			e, err := opts.client().Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Employee %d created.\n", e.ID)
			return printEmployee(cmd.OutOrStdout(), e)
		},
	}
	addFormFlags(cmd)
	return cmd
}

func updateCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the given fields of an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form := formFromFlags(cmd.Flags())
			if len(form) == 0 {
				return fmt.Errorf("nothing to update: pass at least one field flag")
			}
			req, err := form.UpdateRequest()
			if err != nil {
				return err
			}
			e, err := opts.client().Update(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Employee %d updated.\n", e.ID)
			return printEmployee(cmd.OutOrStdout(), e)
		},
	}
	addFormFlags(cmd)
	return cmd
}

func deleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.client().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Employee %s deleted.\n", args[0])
			return nil
		},
	}
}

func statsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.client().Stats(cmd.Context())
			if err != nil {
				return err
			}
			return printStats(cmd.OutOrStdout(), s)
		},
	}
}
