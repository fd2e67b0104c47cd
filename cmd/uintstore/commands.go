package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/branched-services/go-uintstore"
)

// newRunCmd runs the full read, set, read sequence.
func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Read the value, store a new one from the first account, read it again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := a.cfg.NewValue()
			if err != nil {
				return err
			}

			ctx, cancel, session, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			defer session.Close()

			script := uintstore.NewScript(session.Contract, session.Accounts, value,
				uintstore.WithLogger(a.logger),
				uintstore.WithReporter(a.reporter(cmd)))
			_, err = script.Run(ctx)
			return err
		},
	}
	cmd.Flags().StringVar(&a.cfg.Value, "value", envString("VALUE", a.cfg.Value), "value to store (decimal or 0x hex)")
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the stored value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel, session, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			defer session.Close()

			v, err := session.Contract.ReadValue(ctx)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), v)
			return err
		},
	}
}

func newSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <value>",
		Short: "Store a value from the first account and print the receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := uintstore.ParseValue(args[0])
			if err != nil {
				return err
			}

			ctx, cancel, session, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			defer session.Close()

			accounts, err := uintstore.ListAccounts(ctx, session.Accounts)
			if err != nil {
				return err
			}
			a.logger.Info("sending transaction",
				zap.Stringer("value", value),
				zap.String("from", accounts[0].Address.Hex()))

			receipt, err := session.Contract.SetValue(ctx, value, accounts[0])
			if receipt != nil {
				if perr := printJSON(cmd.OutOrStdout(), receipt); perr != nil && err == nil {
					err = perr
				}
			}
			return err
		},
	}
}

func newAccountsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List the accounts available for signing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel, session, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer cancel()
			defer session.Close()

			accounts, err := uintstore.ListAccounts(ctx, session.Accounts)
			if err != nil {
				return err
			}
			for i, acc := range accounts {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", i, acc.Address.Hex()); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
