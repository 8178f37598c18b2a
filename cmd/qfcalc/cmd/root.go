// Package cmd implements the qfcalc command line: one subcommand per
// instrument, each reading a task object or array and printing one JSON line.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/meenmo/qflib/config"
)

// ErrTasksFailed is returned when at least one task reported an error. The
// errors themselves are already in the JSON output.
var ErrTasksFailed = errors.New("one or more tasks failed")

// configEnv names the config file when --config is not given.
const configEnv = "QFCALC_CONFIG"

type options struct {
	cfgFile   string
	inputPath string
	logLevel  string
	logJSON   bool
	logger    zerolog.Logger
}

// Execute runs the root command with os.Args.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &options{logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "qfcalc",
		Short: "Quantitative finance calculator",
		Long: `qfcalc prices options, swaptions and bonds and amortizes mortgages.

Each subcommand reads one task object or an array of tasks as JSON or YAML
from --input (or stdin) and prints one JSON line. Tasks that fail carry an
"error" field and make the command exit with status 1.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "TOML config file (default: $"+configEnv+")")
	flags.StringVarP(&opts.inputPath, "input", "i", "", "task file, .json/.yaml/.yml (reads stdin if omitted)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.BoolVar(&opts.logJSON, "log-json", false, "write logs as JSON instead of console text")

	root.AddCommand(
		newTaskCmd(opts, "option", "Price a vanilla option (analytic, lattice or Monte Carlo)", processOption),
		newTaskCmd(opts, "swaption", "Price a European payer or receiver swaption", processSwaption),
		newTaskCmd(opts, "bond", "Fair price, yield and durations of a level-coupon bond", processBond),
		newTaskCmd(opts, "mortgage", "Amortize a mortgage with optional prepayment", processMortgage),
		newTaskCmd(opts, "irr", "Internal rate of return of a cash-flow list", processIrr),
		newTaskCmd(opts, "vasicek", "Vasicek zero-coupon prices and spot rates", processVasicek),
	)
	return root
}

// setup loads .env, builds the logger and applies the config file.
func (o *options) setup(stderr io.Writer) error {
	if err := loadDotEnv(); err != nil {
		return err
	}

	logger, err := newLogger(o.logLevel, o.logJSON, stderr)
	if err != nil {
		return err
	}
	o.logger = logger

	path := strings.TrimSpace(o.cfgFile)
	if path == "" {
		path = strings.TrimSpace(os.Getenv(configEnv))
	}
	if path == "" {
		return nil
	}
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	config.SetConfig(c)
	o.logger.Debug().Str("path", path).Msg("config loaded")
	return nil
}

// loadDotEnv loads .env (or the given files). A missing file is not an
// error; a malformed one is.
func loadDotEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func newLogger(level string, asJSON bool, w io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	out := w
	if !asJSON {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}
