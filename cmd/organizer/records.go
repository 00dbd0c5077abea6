package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/ogurasousui/employee-organizer/internal/adapters/export"
	"github.com/ogurasousui/employee-organizer/internal/adapters/tui"
	"github.com/ogurasousui/employee-organizer/internal/core/employee"
	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list [query]",
		Short: "List employees, optionally filtered by name or employee ID",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var query string
			if len(args) == 1 {
				query = args[0]
			}
			records, err := a.employees.ListEmployees(cmd.Context(), employee.ListEmployeesInput{Query: query})
			if err != nil {
				return userError(err)
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No employees found.")
				return nil
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ID", "NAME", "DESIGNATION", "DEPARTMENT", "LOCATION")
			for _, rec := range records {
				t.Row(rec.EmployeeID, rec.FullName, rec.Designation, rec.Department, rec.Location)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
			return nil
		},
	}
}

func newViewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view <id>",
		Short: "Show an employee's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := a.employees.GetEmployee(cmd.Context(), employee.GetEmployeeInput{ID: args[0]})
			if err != nil {
				return userError(err)
			}

			var b strings.Builder
			fmt.Fprintf(&b, "%s (%s)\n", rec.FullName, rec.EmployeeID)
			for _, row := range [][2]string{
				{"Designation", rec.Designation},
				{"Department", rec.Department},
				{"Joining", rec.JoinDate},
				{"Location", rec.Location},
				{"Salary", tui.FormatSalary(rec.Salary)},
				{"Phone", rec.Phone},
				{"Email", rec.Email},
				{"DOB", rec.DOB},
				{"Address", rec.Address},
			} {
				fmt.Fprintf(&b, "  %-12s %s\n", row[0], row[1])
			}
			fmt.Fprint(cmd.OutOrStdout(), b.String())
			return nil
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an employee permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.employees.DeleteEmployee(cmd.Context(), employee.DeleteEmployeeInput{ID: args[0]}); err != nil {
				return userError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), employee.MsgDeleted)
			return nil
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete ALL employee records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to clear all employee data without --yes")
			}
			if err := a.employees.ClearEmployees(cmd.Context()); err != nil {
				return userError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), employee.MsgCleared)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion of every record")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Export all employees to an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.employees.ListEmployees(cmd.Context(), employee.ListEmployeesInput{})
			if err != nil {
				return userError(err)
			}
			if err := export.SaveXLSX(args[0], records); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d employees to %s\n", len(records), args[0])
			return nil
		},
	}
}
