package cli

import (
	"io/fs"
	"os"

	"github.com/arthur-debert/gffrules/internal/version"
	"github.com/arthur-debert/gffrules/pkg/cobrax/topics"
	"github.com/arthur-debert/gffrules/pkg/config"
	"github.com/arthur-debert/gffrules/pkg/logging"
	"github.com/arthur-debert/gffrules/pkg/style"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app holds what the persistent pre-run resolved for the subcommands
type app struct {
	configPath string
	verbosity  int
	color      string

	cfg   *config.Config
	runID string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	a := &app{}

	initTemplateFormatting()

	rootCmd := &cobra.Command{
		Use:     "gffrules",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&a.color, "color", "", MsgFlagColor)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCheckCmd(a))
	rootCmd.AddCommand(newTableCmd(a))
	rootCmd.AddCommand(newTagCmd(a))
	rootCmd.AddCommand(newApplyCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))

	// Topic help replaces the default help command
	if helpFS, err := fs.Sub(topicFiles, "topics"); err == nil {
		renderer := topics.NewGlamourRenderer(style.ShouldColor(style.ColorAuto, os.Stdout))
		if _, err := topics.InitializeWithOptions(rootCmd, helpFS, topics.Options{Renderer: renderer}); err != nil {
			log.Debug().Err(err).Msg(MsgTopicsUnavailable)
		}
	}

	return rootCmd
}

// setup loads the configuration, then sets up logging with the larger of the
// flag and configured verbosity
func (a *app) setup(cmd *cobra.Command) error {
	overrides := map[string]interface{}{}
	if a.color != "" {
		overrides["output.color"] = a.color
	}

	cfg, err := config.Load(config.LoadOptions{
		Path:      a.configPath,
		Overrides: overrides,
	})
	if err != nil {
		return err
	}
	a.cfg = cfg

	verbosity := a.verbosity
	if cfg.Logging.Verbosity > verbosity {
		verbosity = cfg.Logging.Verbosity
	}
	logging.SetupLogger(verbosity)

	a.runID = uuid.NewString()
	log.Logger = log.Logger.With().Str("run", a.runID).Logger()
	log.Debug().Str("command", cmd.Name()).Msg("Command started")
	return nil
}
