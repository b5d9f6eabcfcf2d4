package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "deliveryflow/docs"
)

var (
	version = "dev"
	commit  = "none"
)

// @title DeliveryFlow API
// @version 1.0
// @description API for managing customers and priced delivery orders
// @host localhost:8080
// @BasePath /
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "deliveryflow",
		Short:         "Customer and delivery order API",
		Long:          "DeliveryFlow serves a JSON API for customers and delivery orders, pricing every order as it is written.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newQuoteCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show DeliveryFlow version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "deliveryflow %s (%s)\n", version, commit)
			return nil
		},
	}
}
