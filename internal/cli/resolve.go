package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/bookfriends/server/internal/entrypoint"
)

// NewResolveCommand resolves one ISBN through the cache and provider and
// prints the book as JSON. The server must not be running: the book cache
// is single-process.
func NewResolveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <isbn>",
		Short: "Look up a book by ISBN and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			books, err := entrypoint.OpenBookSource(cfg)
			if err != nil {
				return err
			}
			defer books.Close()

			book, err := books.Resolver.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(book)
		},
	}
}
