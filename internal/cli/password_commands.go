package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newResetPasswordCommand(options *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password",
		Short: "Generate a new gate passphrase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := options.openSetupRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			passphrase, err := rt.setup.ResetGatePassword()
			if err != nil {
				return fmt.Errorf("reset gate password: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Gate password reset")
			fmt.Fprintf(out, "New passphrase: %s\n", passphrase)
			fmt.Fprintln(out, "It is shown only once.")
			return nil
		},
	}
}

func newSetPasswordCommand(options *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-password",
		Short: "Set the gate password from a prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := options.openSetupRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			stdin := options.streams.In
			if stdin == nil {
				stdin = os.Stdin
			}
			prompt := newPasswordPrompt(stdin, options.errOut())

			password, err := prompt.read("New gate password: ")
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			confirmation, err := prompt.read("Repeat password: ")
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			if password != confirmation {
				return errors.New("passwords do not match")
			}

			if err := rt.setup.SetGatePassword(password); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Gate password updated")
			return nil
		},
	}
}
