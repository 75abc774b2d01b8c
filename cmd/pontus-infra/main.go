// Command pontus-infra synthesizes the CloudFormation stacks of the Pontus backend and
// maintains the application secret.
//
// Usage:
//
//	pontus-infra build app -o app.json     Generate the application template
//	pontus-infra lint                      Check the templates for issues
//	pontus-infra secrets sync --restart    Write the app secret and roll the service
//	pontus-infra version                   Show version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	pontus "github.com/pontuslabs/pontus-infra"
	"github.com/pontuslabs/pontus-infra/infra"
	"github.com/pontuslabs/pontus-infra/internal/config"
	"github.com/pontuslabs/pontus-infra/internal/log"
	"github.com/pontuslabs/pontus-infra/internal/template"
)

// globalOptions holds the persistent flags shared by all subcommands.
type globalOptions struct {
	configPath string
	stackEnv   string
	log        log.Options
}

func newGlobalOptions() *globalOptions {
	return &globalOptions{
		configPath: config.DefaultPath,
		log:        log.NewDefaultOptions(),
	}
}

func main() {
	opts := newGlobalOptions()

	if err := newRootCmd(opts).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(opts *globalOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pontus-infra",
		Short: "Synthesize and operate the Pontus AWS stacks",
		Long: `pontus-infra declares the Pontus backend infrastructure in Go and synthesizes
CloudFormation templates from it.

Settings come from pontus.yaml. Any value may be read from the environment:

    database:
      password: env:POSTGRES_PASSWORD

Generate the application template:

    pontus-infra build app -o app.json`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.log.Validate()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", opts.configPath, "Path to the config file")
	rootCmd.PersistentFlags().StringVar(&opts.stackEnv, "stack-env", "", "Override the environment from the config file")
	opts.log.AddFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		newBuildCmd(opts),
		newListCmd(opts),
		newGraphCmd(opts),
		newLintCmd(opts),
		newValidateCmd(opts),
		newDiffCmd(opts),
		newWatchCmd(opts),
		newResolveCmd(opts),
		newSecretsCmd(opts),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pontus-infra %s\n", getVersion())
		},
	}
}

func (g *globalOptions) logger() *zap.SugaredLogger {
	return log.NewFromOptions(g.log).Sugar()
}

// loadConfig reads the config file. Unless strict, unset environment variables resolve to "".
func (g *globalOptions) loadConfig(strict bool) (*config.Config, error) {
	r := config.NewOptionalEnvResolver()
	if strict {
		r = config.NewEnvResolver()
	}
	cfg, err := config.LoadWith(g.configPath, r)
	if err != nil {
		return nil, err
	}
	if g.stackEnv != "" {
		cfg.Environment = g.stackEnv
	}
	return cfg, nil
}

// synthesis is a stack declared and built from the config file.
type synthesis struct {
	cfg      *config.Config
	stack    infra.Stack
	builder  *template.Builder
	template *pontus.Template
}

// synthesize declares and builds the named stack. A build failure is returned with the
// builder so callers can still report declared resources.
func (g *globalOptions) synthesize(stackName string) (*synthesis, error) {
	cfg, err := g.loadConfig(false)
	if err != nil {
		return nil, err
	}
	stack, err := infra.Lookup(stackName)
	if err != nil {
		return nil, err
	}
	b, err := stack.Builder(cfg)
	if err != nil {
		return nil, err
	}

	s := &synthesis{cfg: cfg, stack: stack, builder: b}
	s.template, err = b.Build()
	return s, err
}

// stackArg returns the stack named on the command line, defaulting to the app stack.
func stackArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return infra.StackApp
}
