package main

import (
	"encoding/json"
	"fmt"

	"deliveryflow/pkg/pricing"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newQuoteCmd() *cobra.Command {
	var (
		distance, weight         string
		rateDistance, rateWeight string
		deliveryType             string
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price an order without storing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := pricing.Input{DeliveryType: deliveryType}
			for _, f := range []struct {
				flag  string
				value string
				dst   *decimal.Decimal
			}{
				{"distance", distance, &in.DistanceKm},
				{"weight", weight, &in.WeightKg},
				{"rate-distance", rateDistance, &in.RateDistance},
				{"rate-weight", rateWeight, &in.RateWeight},
			} {
				d, err := decimal.NewFromString(f.value)
				if err != nil {
					return fmt.Errorf("--%s: %w", f.flag, err)
				}
				if d.IsNegative() {
					return fmt.Errorf("--%s must not be negative", f.flag)
				}
				*f.dst = d
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(pricing.Compute(in))
		},
	}

	cmd.Flags().StringVar(&distance, "distance", "0", "distance in km")
	cmd.Flags().StringVar(&weight, "weight", "0", "weight in kg")
	cmd.Flags().StringVar(&rateDistance, "rate-distance", "0", "price per km")
	cmd.Flags().StringVar(&rateWeight, "rate-weight", "0", "price per kg")
	cmd.Flags().StringVar(&deliveryType, "type", "normal", "delivery type")
	return cmd
}
