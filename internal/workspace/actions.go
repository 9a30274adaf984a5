package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"pfm-api/internal/ledger"
)

const (
	ActionAddTransactions   = "add_transactions"
	ActionClearTransactions = "clear_transactions"
	ActionSetBudgetAmount   = "set_budget_amount"
	ActionSetHolding        = "set_holding"
	ActionRemoveHolding     = "remove_holding"
	ActionSetBalance        = "set_balance"
	ActionImportState       = "import_state"
	ActionResetAll          = "reset_all"
)

const (
	BalanceCash        = "cash"
	BalanceInvestments = "investments"
	BalanceDebt        = "debt"
)

var (
	ErrUnknownAction  = errors.New("unknown workspace action")
	ErrInvalidPayload = errors.New("invalid action payload")
	ErrUnknownBalance = errors.New("balance kind must be cash, investments or debt")
	ErrEmptyCategory  = errors.New("budget category cannot be empty")
	ErrEmptySymbol    = errors.New("holding symbol cannot be empty")
	ErrNegativeAmount = errors.New("amount cannot be negative")
)

// Action is a state transition applied by Store.Dispatch.
type Action interface {
	Type() string
	apply(s *State, e *env) error
}

type env struct {
	normalizer *ledger.Normalizer
	skipped    []ledger.Skip
}

// AddTransactions normalizes ledger rows and appends them.
type AddTransactions struct {
	Rows []ledger.RawRow `json:"rows"`
}

func (AddTransactions) Type() string { return ActionAddTransactions }

func (a AddTransactions) apply(s *State, e *env) error {
	entries, skipped := e.normalizer.NormalizeLedger(a.Rows)
	e.skipped = append(e.skipped, skipped...)
	s.Transactions = append(s.Transactions, entries...)
	s.derive()
	return nil
}

type ClearTransactions struct{}

func (ClearTransactions) Type() string { return ActionClearTransactions }

func (ClearTransactions) apply(s *State, _ *env) error {
	s.Transactions = []ledger.Entry{}
	s.derive()
	return nil
}

type SetBudgetAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

func (SetBudgetAmount) Type() string { return ActionSetBudgetAmount }

func (a SetBudgetAmount) apply(s *State, _ *env) error {
	category := strings.TrimSpace(a.Category)
	if category == "" {
		return ErrEmptyCategory
	}
	if a.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	s.BudgetCategories[category] = a.Amount
	return nil
}

// SetHolding sets the target allocation percentage for a symbol.
type SetHolding struct {
	Symbol  string          `json:"symbol"`
	Percent decimal.Decimal `json:"percent"`
}

func (SetHolding) Type() string { return ActionSetHolding }

func (a SetHolding) apply(s *State, _ *env) error {
	symbol := normalizeSymbol(a.Symbol)
	if symbol == "" {
		return ErrEmptySymbol
	}
	if a.Percent.IsNegative() {
		return ErrNegativeAmount
	}
	s.Holdings[symbol] = a.Percent
	return nil
}

type RemoveHolding struct {
	Symbol string `json:"symbol"`
}

func (RemoveHolding) Type() string { return ActionRemoveHolding }

func (a RemoveHolding) apply(s *State, _ *env) error {
	delete(s.Holdings, normalizeSymbol(a.Symbol))
	return nil
}

// SetBalance replaces one balance and recomputes net worth history.
type SetBalance struct {
	Kind   string          `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
}

func (SetBalance) Type() string { return ActionSetBalance }

func (a SetBalance) apply(s *State, _ *env) error {
	switch strings.ToLower(a.Kind) {
	case BalanceCash:
		s.Balances.Cash = a.Amount
	case BalanceInvestments:
		s.Balances.Investments = a.Amount
	case BalanceDebt:
		s.Balances.Debt = a.Amount
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBalance, a.Kind)
	}
	s.derive()
	return nil
}

// ImportState replaces the workspace with previously exported data. Missing
// or malformed fields fall back to their defaults.
type ImportState struct {
	Data map[string]any
}

func (ImportState) Type() string { return ActionImportState }

func (a ImportState) apply(s *State, e *env) error {
	next := DefaultState()

	if raw, ok := a.Data["balances"].(map[string]any); ok {
		next.Balances.Cash = coerceAmount(raw[BalanceCash], next.Balances.Cash)
		next.Balances.Investments = coerceAmount(raw[BalanceInvestments], next.Balances.Investments)
		next.Balances.Debt = coerceAmount(raw[BalanceDebt], next.Balances.Debt)
	}

	if raw, ok := a.Data["transactions"].([]any); ok {
		rows := make([]ledger.RawRow, 0, len(raw))
		for _, item := range raw {
			if row, ok := item.(map[string]any); ok {
				rows = append(rows, ledger.RawRow(row))
			}
		}
		entries, skipped := e.normalizer.NormalizeLedger(rows)
		e.skipped = append(e.skipped, skipped...)
		for i := range entries {
			if original, ok := entries[i].RawFields["raw_fields"].(map[string]any); ok {
				entries[i].RawFields = ledger.RawRow(original)
			}
		}
		next.Transactions = entries
	}

	if raw, ok := a.Data["budget_categories"].(map[string]any); ok {
		next.BudgetCategories = coerceAmounts(raw)
	}
	if raw, ok := a.Data["holdings"].(map[string]any); ok {
		next.Holdings = coerceAmounts(raw)
	}

	next.derive()
	*s = next
	return nil
}

type ResetAll struct{}

func (ResetAll) Type() string { return ActionResetAll }

func (ResetAll) apply(s *State, _ *env) error {
	*s = DefaultState()
	return nil
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// DecodeAction parses {"type": ..., "payload": {...}} into an Action.
func DecodeAction(data []byte) (Action, error) {
	var msg envelope
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	var action Action
	switch msg.Type {
	case ActionAddTransactions:
		var a AddTransactions
		if err := decodePayload(msg.Payload, &a); err != nil {
			return nil, err
		}
		action = a
	case ActionClearTransactions:
		action = ClearTransactions{}
	case ActionSetBudgetAmount:
		var a SetBudgetAmount
		if err := decodePayload(msg.Payload, &a); err != nil {
			return nil, err
		}
		action = a
	case ActionSetHolding:
		var a SetHolding
		if err := decodePayload(msg.Payload, &a); err != nil {
			return nil, err
		}
		action = a
	case ActionRemoveHolding:
		var a RemoveHolding
		if err := decodePayload(msg.Payload, &a); err != nil {
			return nil, err
		}
		action = a
	case ActionSetBalance:
		var a SetBalance
		if err := decodePayload(msg.Payload, &a); err != nil {
			return nil, err
		}
		action = a
	case ActionImportState:
		var data map[string]any
		if err := decodePayload(msg.Payload, &data); err != nil {
			return nil, err
		}
		action = ImportState{Data: data}
	case ActionResetAll:
		action = ResetAll{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, msg.Type)
	}

	return action, nil
}

func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: missing payload", ErrInvalidPayload)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

func coerceAmount(v any, fallback decimal.Decimal) decimal.Decimal {
	if v == nil {
		return fallback
	}
	d, err := ledger.ParseAmount(v)
	if err != nil {
		return fallback
	}
	return d
}

func coerceAmounts(raw map[string]any) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(raw))
	for k, v := range raw {
		d, err := ledger.ParseAmount(v)
		if err != nil || v == nil {
			continue
		}
		out[k] = d
	}
	return out
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
