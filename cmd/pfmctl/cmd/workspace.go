package cmd

import (
	"encoding/json"
	"fmt"

	"pfm-api/internal/ledger"
	"pfm-api/internal/workspace"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type workspaceOptions struct {
	*rootOptions
	dbPath string
	name   string
}

func newWorkspaceCmd(root *rootOptions) *cobra.Command {
	opts := &workspaceOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Inspect and change the local workspace",
	}
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "pfm.db", "bbolt file holding workspaces")
	cmd.PersistentFlags().StringVar(&opts.name, "name", "default", "workspace name")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print balances, budgets and derived metrics",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withStore(false, func(s *workspace.Store) error {
					return writeJSON(cmd.OutOrStdout(), summarize(s.Snapshot()))
				})
			},
		},
		&cobra.Command{
			Use:   "add-json FILE",
			Short: "Append ledger rows from a JSON array (- reads stdin)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := readInput(cmd, args[0])
				if err != nil {
					return err
				}
				var rows []ledger.RawRow
				if err := json.Unmarshal(data, &rows); err != nil {
					return fmt.Errorf("expected a JSON array of rows: %w", err)
				}

				return opts.withStore(true, func(s *workspace.Store) error {
					skipped, err := s.Dispatch(workspace.AddTransactions{Rows: rows})
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "added %d rows, skipped %d\n", len(rows)-len(skipped), len(skipped))
					for _, skip := range skipped {
						opts.logger.Debug("row skipped", "index", skip.Index, "reason", skip.Reason)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "set-balance cash|investments|debt AMOUNT",
			Short: "Replace one balance",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				amount, err := decimal.NewFromString(args[1])
				if err != nil {
					return fmt.Errorf("invalid amount %q: %w", args[1], err)
				}
				return opts.withStore(true, func(s *workspace.Store) error {
					_, err := s.Dispatch(workspace.SetBalance{Kind: args[0], Amount: amount})
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "dispatch FILE",
			Short: "Apply a JSON action such as {\"type\":\"set_budget_amount\",\"payload\":{...}}",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := readInput(cmd, args[0])
				if err != nil {
					return err
				}
				action, err := workspace.DecodeAction(data)
				if err != nil {
					return err
				}
				return opts.withStore(true, func(s *workspace.Store) error {
					_, err := s.Dispatch(action)
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "export",
			Short: "Print the workspace as JSON",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withStore(false, func(s *workspace.Store) error {
					data, err := s.Export()
					if err != nil {
						return err
					}
					_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "import FILE",
			Short: "Replace the workspace with an export (- reads stdin)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := readInput(cmd, args[0])
				if err != nil {
					return err
				}
				imported, err := workspace.Load(data, opts.logger)
				if err != nil {
					return err
				}
				return opts.withBolt(func(repo *workspace.BoltRepository) error {
					return repo.SaveStore(opts.name, imported)
				})
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Restore the default workspace",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withStore(true, func(s *workspace.Store) error {
					_, err := s.Dispatch(workspace.ResetAll{})
					return err
				})
			},
		},
	)
	return cmd
}

func (o *workspaceOptions) withBolt(fn func(*workspace.BoltRepository) error) error {
	repo, err := workspace.OpenBolt(o.dbPath)
	if err != nil {
		return err
	}
	defer repo.Close()
	return fn(repo)
}

// withStore loads the named workspace, runs fn and saves the result when
// save is set and fn succeeded.
func (o *workspaceOptions) withStore(save bool, fn func(*workspace.Store) error) error {
	return o.withBolt(func(repo *workspace.BoltRepository) error {
		store, err := repo.LoadStore(o.name, o.logger)
		if err != nil {
			return err
		}
		if err := fn(store); err != nil {
			return err
		}
		if !save {
			return nil
		}
		return repo.SaveStore(o.name, store)
	})
}

type workspaceSummary struct {
	Balances         ledger.Balances            `json:"balances"`
	NetWorth         decimal.Decimal            `json:"net_worth"`
	Transactions     int                        `json:"transactions"`
	MonthlySpending  []ledger.MonthlyPoint      `json:"monthly_spending"`
	BudgetCategories map[string]decimal.Decimal `json:"budget_categories"`
	TotalBudget      decimal.Decimal            `json:"total_budget"`
	Holdings         map[string]decimal.Decimal `json:"holdings"`
}

func summarize(s workspace.State) workspaceSummary {
	return workspaceSummary{
		Balances:         s.Balances,
		NetWorth:         s.Balances.NetWorth(),
		Transactions:     len(s.Transactions),
		MonthlySpending:  s.MonthlySpending,
		BudgetCategories: s.BudgetCategories,
		TotalBudget:      s.TotalBudget(),
		Holdings:         s.Holdings,
	}
}
