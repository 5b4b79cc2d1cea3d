package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bookfriends/server/internal/auth"
	"github.com/bookfriends/server/internal/config"
	"github.com/bookfriends/server/internal/database"
	"github.com/bookfriends/server/internal/database/users"
)

type createUserOptions struct {
	Phone    string
	Password string
	NickName string
}

func NewCreateUserCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &createUserOptions{}

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Register an account from the command line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			id, err := createUser(cmd.Context(), cfg, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (%s)\n", id, opts.Phone)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Phone, "phone", "", "phone number (required)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "password, at least 6 characters (required)")
	cmd.Flags().StringVar(&opts.NickName, "nick", "", "nickname (required)")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("nick")

	return cmd
}

func createUser(ctx context.Context, cfg *config.Config, opts *createUserOptions) (string, error) {
	db, err := database.NewDatabaseWithLogLevel(cfg.Database.Path, cfg.Database.LogLevel)
	if err != nil {
		return "", err
	}
	defer db.Close()

	service := auth.NewService(users.NewRepository(db.DB), cfg.Auth)
	user, err := service.Register(ctx, opts.Phone, opts.Password, opts.NickName)
	if errors.Is(err, auth.ErrUserExists) {
		return "", fmt.Errorf("phone number %s is already registered", opts.Phone)
	}
	if err != nil {
		return "", err
	}
	return user.ID, nil
}
