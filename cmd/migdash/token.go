package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ndewijer/Migration-Dashboard/internal/service"
	"github.com/ndewijer/Migration-Dashboard/internal/terminal"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the remembered GitHub access token",
	Long: `The remembered token is used for uploads when --token is not given.
It is stored encrypted in the local database with MIGDASH_TOKEN_KEY.`,
}

var tokenSaveCmd = &cobra.Command{
	Use:   "save [token]",
	Short: "Remember an access token (prompts when not given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		var token string
		if len(args) == 1 {
			token = args[0]
		} else if token, err = terminal.Password("GitHub access token"); err != nil {
			return err
		}

		if err := a.TokenService.Save(cmd.Context(), token); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Token saved.")
		return nil
	},
}

var tokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the remembered access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.TokenService.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Token cleared.")
		return nil
	},
}

var tokenKeygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Print a new key for MIGDASH_TOKEN_KEY",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := service.GenerateTokenKey()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), key)
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenSaveCmd, tokenClearCmd, tokenKeygenCmd)
}
