package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Renato2024Valente/Buscativa2026/apps"
)

func (cli *commandLine) studentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "student",
		Short: "Manage students",
		RunE:  helpRunE,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "activate <id>",
		Short: "Show the student in the listings again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.setStudentActive(cmd.Context(), args[0], true)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "deactivate <id>",
		Short: "Hide the student from the listings, keeping their history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.setStudentActive(cmd.Context(), args[0], false)
		},
	})

	var confirmed bool
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete the student with all their attendance records and outreach cases",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return apps.NewArgumentError("deleting a student is permanent, pass --yes to confirm")
			}
			return cli.deleteStudent(cmd.Context(), args[0])
		},
	}
	del.Flags().BoolVar(&confirmed, "yes", false, "confirm the deletion")
	cmd.AddCommand(del)
	return cmd
}

func parseStudentID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, apps.NewArgumentError(fmt.Sprintf("invalid student id %q", arg))
	}
	return id, nil
}

func (cli *commandLine) setStudentActive(ctx context.Context, arg string, active bool) error {
	id, err := parseStudentID(arg)
	if err != nil {
		return err
	}
	svc, err := cli.service()
	if err != nil {
		return err
	}
	stu, err := svc.SetStudentActive(ctx, id, active)
	if err != nil {
		return err
	}
	state := "inactive"
	if stu.Active {
		state = "active"
	}
	fmt.Fprintf(cli.out, "student %d (%s, %s) is now %s\n", stu.ID, stu.Name, stu.Class, state)
	return nil
}

func (cli *commandLine) deleteStudent(ctx context.Context, arg string) error {
	id, err := parseStudentID(arg)
	if err != nil {
		return err
	}
	svc, err := cli.service()
	if err != nil {
		return err
	}
	if err = svc.DeleteStudent(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "student %d deleted\n", id)
	return nil
}
