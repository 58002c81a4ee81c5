package main

import (
	"errors"
	"io"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Renato2024Valente/Buscativa2026/apps/shared"
	"github.com/Renato2024Valente/Buscativa2026/core"
	"github.com/Renato2024Valente/Buscativa2026/core/attendance"
	"github.com/Renato2024Valente/Buscativa2026/storage/database"
)

var (
	readPasswordFunc  = term.ReadPassword      // mockable
	runMigrationsFunc = database.RunMigrations // mockable
	openStorageFunc   = shared.OpenStorage     // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf    *core.Config
	logger  core.Logger
	out     io.Writer
	storage *shared.Storage
}

func newCommandLine(conf *core.Config, logger core.Logger, out io.Writer) *commandLine {
	return &commandLine{conf: conf, logger: logger, out: out}
}

// service opens the configured store on first use.
func (cli *commandLine) service() (*attendance.Service, error) {
	if cli.storage == nil {
		storage, err := openStorageFunc(cli.conf)
		if err != nil {
			return nil, err
		}
		cli.storage = storage
	}
	validate, translator := newValidator()
	return attendance.NewService(cli.storage.Store, validate, translator, cli.logger, nil), nil
}

func newValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	return validate, translator
}

func (cli *commandLine) close() error {
	if cli.storage == nil {
		return nil
	}
	return cli.storage.Close()
}

func (cli *commandLine) rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "admin",
		Short:         "Buscativa administration",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          helpRunE,
	}
	cmd.SetOut(cli.out)
	cmd.AddCommand(cli.migrateCommand())
	cmd.AddCommand(cli.studentCommand())
	cmd.AddCommand(cli.hashPasswordCommand())
	return cmd
}

// helpRunE prints the usage of commands that need a subcommand.
func helpRunE(cmd *cobra.Command, _ []string) error {
	_ = cmd.Help()
	return errHelp
}

// run executes the command line; args[0] is the program name.
func (cli *commandLine) run(args []string) error {
	root := cli.rootCommand()
	if len(args) > 0 {
		args = args[1:]
	}
	root.SetArgs(args)
	return root.Execute()
}
