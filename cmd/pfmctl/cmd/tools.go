package cmd

import (
	"fmt"
	"strconv"
	"time"

	"pfm-api/internal/format"
	"pfm-api/internal/rules"
	"pfm-api/internal/services"

	"github.com/spf13/cobra"
)

func newCategorizeCmd() *cobra.Command {
	var rulesFile string

	cmd := &cobra.Command{
		Use:   "categorize DESCRIPTION",
		Short: "Categorize a bank description with the keyword rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := rules.LoadKeywordRulesFile(rulesFile)
			if err != nil {
				return err
			}

			category, ok := table.Categorize(args[0])
			if !ok {
				category = "Uncategorized"
			}
			fmt.Fprintln(cmd.OutOrStdout(), category)
			return nil
		},
	}

	cmd.Flags().StringVar(&rulesFile, "rules", "", "YAML keyword rule file (default: built-in rules)")
	return cmd
}

func newFormatCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "format currency|percent|expense_ratio VALUE",
		Short:     "Render a number the way the app displays it",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"currency", "percent", "expense_ratio"},
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[1], err)
			}

			var out string
			switch args[0] {
			case "currency":
				out = format.FormatCurrency(value)
			case "percent":
				out = format.FormatPercent(value)
			case "expense_ratio":
				out = format.FormatPercentPlaces(value, 2)
			default:
				return fmt.Errorf("unknown format %q", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	var (
		months int
		seed   int64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Print generated demo bank rows as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if months < 1 {
				return fmt.Errorf("months must be at least 1")
			}

			end := time.Now().UTC()
			rows := services.NewDemoGenerator(seed).GenerateRows(end.AddDate(0, -months, 0), end)
			return writeJSON(cmd.OutOrStdout(), rows)
		},
	}

	cmd.Flags().IntVar(&months, "months", 3, "months of history to generate")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed, 0 picks one from the clock")
	return cmd
}
