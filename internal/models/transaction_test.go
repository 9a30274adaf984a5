package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pfm-api/internal/ledger"
)

func TestTransaction_Validate(t *testing.T) {
	base := Transaction{
		UserID:      uuid.New(),
		AccountID:   uuid.New(),
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Description: "Coffee",
		Amount:      decimal.NewFromFloat(-4.5),
	}
	require.NoError(t, base.Validate())

	noDescription := base
	noDescription.Description = " "
	assert.ErrorIs(t, noDescription.Validate(), ErrTransactionDescriptionRequired)

	noDate := base
	noDate.Date = time.Time{}
	assert.ErrorIs(t, noDate.Validate(), ErrTransactionDateRequired)

	noAccount := base
	noAccount.AccountID = uuid.Nil
	assert.Error(t, noAccount.Validate())

	assert.True(t, base.IsExpense())
	assert.False(t, base.IsCategorized())
}

func TestTransaction_EntryConversion(t *testing.T) {
	userID, accountID := uuid.New(), uuid.New()
	entry := ledger.Entry{
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Description: "Whole Foods",
		Amount:      decimal.RequireFromString("-52.129"),
		RawFields:   ledger.RawRow{"memo": "Whole Foods"},
	}

	txn := NewTransactionFromEntry(userID, accountID, entry)
	assert.Equal(t, userID, txn.UserID)
	assert.Equal(t, accountID, txn.AccountID)
	assert.Equal(t, "-52.13", txn.Amount.String())
	assert.Equal(t, "Whole Foods", txn.RawFields["memo"])

	categoryID := uuid.New()
	txn.CategoryID = &categoryID
	txn.Category = &Category{ID: categoryID, Name: "Groceries"}

	entries := ToEntries([]Transaction{txn})
	require.Len(t, entries, 1)
	assert.Equal(t, "Groceries", entries[0].Category)
	assert.Equal(t, "Whole Foods", entries[0].Description)
	assert.True(t, txn.IsCategorized())
}
