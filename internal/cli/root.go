package cli

import (
	"github.com/spf13/cobra"

	"github.com/bookfriends/server/internal/config"
	"github.com/bookfriends/server/internal/entrypoint"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Version    string
}

func (o *RootOptions) loadConfig() (*config.Config, error) {
	return config.LoadConfig(o.ConfigPath)
}

// NewRootCommand creates the root command. Without a subcommand it serves
// the HTTP API.
func NewRootCommand(version string) *cobra.Command {
	opts := &RootOptions{Version: version}

	cmd := &cobra.Command{
		Use:           "book-friends",
		Short:         "Book Friends server",
		Long:          "Social reading back-end: book lookup by ISBN, personal collections and reading dynamics.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (environment variables override it)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewResolveCommand(opts))
	cmd.AddCommand(NewCreateUserCommand(opts))

	return cmd
}

// Execute runs the command tree against os.Args.
func Execute(version string) error {
	return NewRootCommand(version).Execute()
}

func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}
}

func runServe(opts *RootOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	entrypoint.Run(cfg, opts.Version)
	return nil
}
