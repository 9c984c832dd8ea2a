// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
	"github.com/taibuivan/yamdb/internal/users/account"
)

var createSuperuserCmd = &cobra.Command{
	Use:   "createsuperuser USERNAME EMAIL",
	Short: "Create an admin account with the staff and superuser flags",
	Long: `Create the first administrator.

The account has no password. It obtains a token through the regular
signup flow with the same username and email.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAccounts(cmd.Context(), func(service *account.Service) error {
			user, err := service.CreateSuperuser(cmd.Context(), args[0], args[1])
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created superuser %s (%s)\n", user.Username, user.Email)
			return nil
		})
	},
}

var setRoleCmd = &cobra.Command{
	Use:       "setrole USERNAME ROLE",
	Short:     "Change the role of an account",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"user", "moderator", "admin"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAccounts(cmd.Context(), func(service *account.Service) error {
			role := args[1]
			user, err := service.Update(cmd.Context(), args[0], account.UpdateInput{Role: &role})
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.Username, user.Role)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(createSuperuserCmd, setRoleCmd)
}

func withAccounts(ctx context.Context, fn func(service *account.Service) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	log := logger()
	pool, err := postgres.NewPool(ctx, dbURL, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	return fn(account.NewService(account.NewPostgresRepository(pool), log))
}

// describe flattens validation details into one line for the terminal.
func describe(err error) error {
	appError := apperr.As(err)
	if appError == nil || len(appError.Details) == 0 {
		return err
	}

	parts := make([]string, 0, len(appError.Details))
	for _, detail := range appError.Details {
		parts = append(parts, detail.Field+": "+detail.Message)
	}
	return fmt.Errorf("%s (%s)", appError.Message, strings.Join(parts, "; "))
}
