package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Renato2024Valente/Buscativa2026/apps"
	"github.com/Renato2024Valente/Buscativa2026/core/access"
)

func (cli *commandLine) hashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Prompt for the shared password and print its hash for ADMIN_PASSWORD_HASH",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cli.hashPassword()
		},
	}
}

func (cli *commandLine) hashPassword() error {
	fmt.Fprint(os.Stderr, "Enter password:")
	raw, err := readPasswordFunc(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}
	pwd := strings.TrimSpace(string(raw))
	if pwd == "" {
		return apps.NewArgumentError("the password cannot be empty")
	}

	hash, err := access.HashPassword(pwd)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, hash)
	return nil
}
