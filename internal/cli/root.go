package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/terraincognita07/ketchup/internal/config"
)

type Streams struct {
	In  *os.File
	Out io.Writer
	Err io.Writer
}

type rootOptions struct {
	configPath string
	logLevel   string
	dbPath     string

	viper   *viper.Viper
	streams Streams
}

func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCommand(Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr})
	if err := cmd.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

func NewRootCommand(streams Streams) *cobra.Command {
	options := &rootOptions{viper: viper.New(), streams: streams}

	cmd := &cobra.Command{
		Use:           "ketchup",
		Short:         "Single-patient dose tracker",
		Long:          "Ketchup logs medication doses for one patient, tracks the 28-day pill cycle and exports reports.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return options.initConfig(cmd.Root().PersistentFlags())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&options.configPath, "config", "", "config file (default is $HOME/.ketchup.yaml)")
	flags.StringVar(&options.logLevel, "loglevel", "", "log level: debug, info, warn, error")
	flags.StringVar(&options.dbPath, "db", "", "sqlite database path")

	cmd.AddCommand(
		newServeCommand(options),
		newLogDoseCommand(options),
		newStatusCommand(options),
		newReportCommand(options),
		newExportCSVCommand(options),
		newImportSheetCommand(options),
		newResetPasswordCommand(options),
		newSetPasswordCommand(options),
	)

	if streams.In != nil {
		cmd.SetIn(streams.In)
	}
	if streams.Out != nil {
		cmd.SetOut(streams.Out)
	}
	if streams.Err != nil {
		cmd.SetErr(streams.Err)
	}
	return cmd
}

// initConfig layers flags over KETCHUP_* env over the config file over defaults.
func (options *rootOptions) initConfig(flags *pflag.FlagSet) error {
	config.SetDefaults(options.viper)
	config.BindEnv(options.viper)
	if err := bindFlag(options.viper, "log_level", flags.Lookup("loglevel")); err != nil {
		return err
	}
	if err := bindFlag(options.viper, "db_path", flags.Lookup("db")); err != nil {
		return err
	}
	return config.ReadConfigFile(options.viper, options.configPath)
}

func bindFlag(v *viper.Viper, key string, flag *pflag.Flag) error {
	if flag == nil {
		return nil
	}
	return v.BindPFlag(key, flag)
}

func (options *rootOptions) errOut() io.Writer {
	if options.streams.Err == nil {
		return io.Discard
	}
	return options.streams.Err
}
