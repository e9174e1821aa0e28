package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/theirongolddev/envel/internal/store"

	"github.com/spf13/cobra"
)

var realiseCmd = &cobra.Command{
	Use:   "realise <transaction-id>",
	Short: "Mark a planned transaction as happened",
	Args:  cobra.ExactArgs(1),
	RunE:  runRealise,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <transaction-id>",
	Short: "Delete a transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(realiseCmd)
	rootCmd.AddCommand(deleteCmd)
}

func runRealise(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.st.Realise(ctx, args[0]); err != nil {
		if errors.Is(err, store.ErrTransactionNotFound) {
			return fmt.Errorf("no planned transaction with id %s", args[0])
		}
		return err
	}
	fmt.Printf("  Transaction %s is now recorded as real.\n", args[0])
	return nil
}

func runDelete(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.st.DeleteTransaction(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("  Deleted transaction %s.\n", args[0])
	return nil
}
