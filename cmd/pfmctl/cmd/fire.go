package cmd

import (
	"fmt"
	"math/rand"
	"time"

	"pfm-api/internal/fire"
	"pfm-api/internal/format"

	"github.com/spf13/cobra"
)

func newProjectCmd() *cobra.Command {
	var in fire.ProjectionInput

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Years until the portfolio reaches the FIRE target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := fire.NewProjector(rand.NewSource(1)).Project(in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Target:            %s\n", format.FormatCurrency(p.Target))
			if p.Reachable {
				fmt.Fprintf(out, "Years to FI:       %d\n", p.YearsToFI)
			} else {
				fmt.Fprintf(out, "Years to FI:       not reached within %d years\n", fire.MaxProjectionYears)
			}
			fmt.Fprintf(out, "Projected balance: %s\n", format.FormatCurrency(p.ProjectedBalance))
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&in.AnnualSpending, "spending", 40000, "annual spending")
	f.Float64Var(&in.WithdrawalRatePercent, "rate", 4, "safe withdrawal rate in percent")
	f.Float64Var(&in.CurrentPortfolio, "portfolio", 0, "current portfolio value")
	f.Float64Var(&in.AnnualContributions, "contrib", 0, "annual contributions")
	f.Float64Var(&in.ExpectedReturnPercent, "return", 7, "expected annual return in percent")
	return cmd
}

func newMonteCarloCmd() *cobra.Command {
	var (
		in   fire.MonteCarloInput
		seed int64
	)

	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "Probability that a withdrawal plan survives retirement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if seed == 0 {
				seed = time.Now().UnixNano()
			}

			res, err := fire.NewProjector(rand.NewSource(seed)).MonteCarlo(in)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Success rate: %s (%d of %d paths)\n",
				format.FormatPercent(res.SuccessProbability), res.Successes, res.Simulations)
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&in.Initial, "initial", 0, "starting portfolio")
	f.Float64Var(&in.AnnualContribution, "contrib", 0, "annual contribution while accumulating")
	f.IntVar(&in.Years, "years", 20, "years of accumulation")
	f.Float64Var(&in.MeanReturn, "mean", 0.07, "mean annual return as a fraction")
	f.Float64Var(&in.Volatility, "volatility", 0.15, "annual return standard deviation")
	f.Float64Var(&in.Inflation, "inflation", 0.03, "annual inflation as a fraction")
	f.Float64Var(&in.AnnualWithdrawal, "withdrawal", 40000, "first-year withdrawal")
	f.IntVar(&in.Simulations, "simulations", 10000, "number of simulated paths")
	f.Int64Var(&seed, "seed", 0, "random seed, 0 picks one from the clock")
	return cmd
}
