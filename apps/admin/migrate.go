package main

import (
	"github.com/spf13/cobra"

	"github.com/Renato2024Valente/Buscativa2026/storage/database"
)

func (cli *commandLine) migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate <up|up-by-one|up-to|down|down-to|redo|reset|status|version> [VERSION]",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return helpRunE(cmd, args)
			}
			return cli.migrate(args)
		},
	}
}

func (cli *commandLine) migrate(args []string) error {
	db, err := database.Open(cli.conf)
	if err != nil {
		return err
	}
	defer db.Close()
	return runMigrationsFunc(db, args[0], args[1:]...)
}
