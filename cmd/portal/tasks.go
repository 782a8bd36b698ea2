package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/memberportal/internal/core"
	"github.com/JonMunkholm/memberportal/internal/database"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded database schema",
		Long:  "Apply the embedded database schema. Statements are idempotent, so running it twice is safe.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := commandContext(cmd)
			pool, _, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := database.Migrate(ctx, pool); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
			return nil
		},
	}
}

// NewPurgeDraftsCommand creates the purge-drafts command.
func NewPurgeDraftsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "purge-drafts",
		Short: "Delete expired drafts and admin sessions once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := commandContext(cmd)
			pool, store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			service := core.NewService(store, nil, core.OptionsFromConfig(cfg))
			drafts, err := service.PurgeExpiredDrafts(ctx)
			if err != nil {
				return err
			}
			sessions, err := service.PurgeExpiredSessions(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %d drafts, %d sessions\n", drafts, sessions)
			return nil
		},
	}
}

// hashPasswordOptions holds the hash-password flags.
type hashPasswordOptions struct {
	Password string
	Email    string
	Name     string
}

// NewHashPasswordCommand creates the hash-password command.
func NewHashPasswordCommand() *cobra.Command {
	opts := &hashPasswordOptions{}

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print a bcrypt hash for an admin password",
		Long: `Print a bcrypt hash for an admin password read from --password or the
first line of stdin. With --email the admin account is created or updated in
the database instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHashPassword(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Password, "password", "", "password to hash (read from stdin when empty)")
	cmd.Flags().StringVar(&opts.Email, "email", "", "create or update the admin with this e-mail")
	cmd.Flags().StringVar(&opts.Name, "name", "", "display name of the admin (with --email)")
	return cmd
}

func runHashPassword(cmd *cobra.Command, opts *hashPasswordOptions) error {
	password := opts.Password
	if password == "" {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	hash, err := core.HashPassword(password)
	if err != nil {
		return err
	}
	if opts.Email == "" {
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	pool, store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	id, err := store.UpsertAdmin(ctx, core.AdminUser{
		Email:        opts.Email,
		Name:         opts.Name,
		PasswordHash: hash,
		Active:       true,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "admin %s saved (id %s)\n", strings.ToLower(strings.TrimSpace(opts.Email)), id)
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
