package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/spiffcs/statcard/config"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := NewOptions()

	rootCmd := &cobra.Command{
		Use:   "statcard",
		Short: "Generate GitHub profile stat cards",
		Long: `Fetches a GitHub user's profile, repositories, languages, commits and
contribution calendar, then renders SVG stat cards, a profile README and a
static HTML page.

Running statcard without a subcommand is the same as 'statcard generate'.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// `statcard` and `statcard generate` accept the same flags
	addGenerateFlags(rootCmd, opts)

	rootCmd.AddCommand(NewCmdGenerate(opts))
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdCache())
	rootCmd.AddCommand(NewCmdHistory())
	rootCmd.AddCommand(NewCmdRateLimit())
	rootCmd.AddCommand(NewCmdVersion())

	return rootCmd
}

// GenerateError marks a failure of the generate pipeline.
type GenerateError struct {
	Err error
}

func (e *GenerateError) Error() string {
	return e.Err.Error()
}

func (e *GenerateError) Unwrap() error {
	return e.Err
}

// PrintError reports err the way the CLI presents failures. Configuration
// problems get their hint line; generate failures get the run prefix.
func PrintError(w io.Writer, err error) {
	var cfgErr *config.ConfigError
	if errors.As(err, &cfgErr) {
		fmt.Fprintln(w, "❌ Error:", cfgErr.Msg)
		if cfgErr.Hint != "" {
			fmt.Fprintln(w, "  ", cfgErr.Hint)
		}
		return
	}

	var genErr *GenerateError
	if errors.As(err, &genErr) {
		fmt.Fprintln(w, "\n❌ Error generating stats:", genErr.Err)
		return
	}

	fmt.Fprintln(w, "Error:", err)
}
