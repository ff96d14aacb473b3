package domain

import (
	"strings"
	"testing"

	apperrors "ledgerpay/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRef = "TXN-20240301-ABCD1234"

var testAccount = ExternalAccount{AccountNumber: "TR330006100519786457841326", BankName: "Other Bank"}

func TestTransactionFactories(t *testing.T) {
	amount := MustMoney("10", CurrencyTRY)

	tests := []struct {
		name    string
		build   func() (*Transaction, error)
		want    TransactionType
		wantErr bool
	}{
		{name: "deposit", build: func() (*Transaction, error) { return NewDeposit(1, amount, "", testRef) }, want: TransactionTypeDeposit},
		{name: "deposit without wallet", build: func() (*Transaction, error) { return NewDeposit(0, amount, "", testRef) }, wantErr: true},
		{name: "deposit zero amount", build: func() (*Transaction, error) { return NewDeposit(1, ZeroMoney(CurrencyTRY), "", testRef) }, wantErr: true},
		{name: "withdrawal", build: func() (*Transaction, error) { return NewWithdrawal(1, testAccount, amount, "", testRef) }, want: TransactionTypeWithdrawal},
		{name: "withdrawal without bank", build: func() (*Transaction, error) {
			return NewWithdrawal(1, ExternalAccount{AccountNumber: "123"}, amount, "", testRef)
		}, wantErr: true},
		{name: "withdrawal without account", build: func() (*Transaction, error) {
			return NewWithdrawal(1, ExternalAccount{BankName: "Bank"}, amount, "", testRef)
		}, wantErr: true},
		{name: "internal transfer", build: func() (*Transaction, error) { return NewInternalTransfer(1, 2, amount, "rent", testRef) }, want: TransactionTypeInternalTransfer},
		{name: "internal transfer to self", build: func() (*Transaction, error) { return NewInternalTransfer(1, 1, amount, "", testRef) }, wantErr: true},
		{name: "internal transfer missing source", build: func() (*Transaction, error) { return NewInternalTransfer(0, 2, amount, "", testRef) }, wantErr: true},
		{name: "external transfer", build: func() (*Transaction, error) { return NewExternalTransfer(3, testAccount, amount, "", testRef) }, want: TransactionTypeExternalTransfer},
		{name: "external transfer missing source", build: func() (*Transaction, error) { return NewExternalTransfer(0, testAccount, amount, "", testRef) }, wantErr: true},
		{name: "long description", build: func() (*Transaction, error) { return NewDeposit(1, amount, strings.Repeat("d", 501), testRef) }, wantErr: true},
		{name: "malformed reference", build: func() (*Transaction, error) { return NewDeposit(1, amount, "", "TXN-1") }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := tt.build()
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
				assert.Nil(t, tx)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, tx.Type())
			assert.Equal(t, TransactionStatusPending, tx.Status())
			assert.Nil(t, tx.ProcessedAt())
			assert.Equal(t, testRef, tx.ReferenceNumber())
		})
	}
}

func TestTransaction_WalletShape(t *testing.T) {
	amount := MustMoney("10", CurrencyTRY)

	dep, err := NewDeposit(5, amount, "", testRef)
	require.NoError(t, err)
	assert.Nil(t, dep.FromWalletID())
	assert.Equal(t, uint(5), *dep.ToWalletID())
	assert.Nil(t, dep.ExternalAccount())

	wd, err := NewWithdrawal(5, testAccount, amount, "", testRef)
	require.NoError(t, err)
	assert.Equal(t, uint(5), *wd.FromWalletID())
	assert.Nil(t, wd.ToWalletID())
	assert.Equal(t, testAccount, *wd.ExternalAccount())

	it, err := NewInternalTransfer(5, 6, amount, "", testRef)
	require.NoError(t, err)
	assert.Equal(t, uint(5), *it.FromWalletID())
	assert.Equal(t, uint(6), *it.ToWalletID())
}

func TestTransaction_StateMachine(t *testing.T) {
	newPending := func(t *testing.T) *Transaction {
		tx, err := NewDeposit(1, MustMoney("1", CurrencyUSD), "", testRef)
		require.NoError(t, err)
		return tx
	}

	t.Run("complete", func(t *testing.T) {
		tx := newPending(t)
		require.NoError(t, tx.MarkAsCompleted())
		assert.Equal(t, TransactionStatusCompleted, tx.Status())
		assert.NotNil(t, tx.ProcessedAt())
	})

	t.Run("fail requires reason", func(t *testing.T) {
		tx := newPending(t)
		assert.ErrorIs(t, tx.MarkAsFailed(" "), apperrors.ErrInvalidArgument)
		assert.Equal(t, TransactionStatusPending, tx.Status())

		require.NoError(t, tx.MarkAsFailed("bank rejected"))
		assert.Equal(t, TransactionStatusFailed, tx.Status())
		assert.Equal(t, "bank rejected", tx.FailureReason())
		assert.NotNil(t, tx.ProcessedAt())
	})

	t.Run("cancel with optional reason", func(t *testing.T) {
		tx := newPending(t)
		require.NoError(t, tx.MarkAsCancelled(""))
		assert.Equal(t, TransactionStatusCancelled, tx.Status())
		assert.NotNil(t, tx.ProcessedAt())
	})

	terminal := map[string]func(*Transaction) error{
		"completed": func(tx *Transaction) error { return tx.MarkAsCompleted() },
		"failed":    func(tx *Transaction) error { return tx.MarkAsFailed("x") },
		"cancelled": func(tx *Transaction) error { return tx.MarkAsCancelled("x") },
	}
	for name, reach := range terminal {
		t.Run("no transition out of "+name, func(t *testing.T) {
			tx := newPending(t)
			require.NoError(t, reach(tx))
			status := tx.Status()
			processed := *tx.ProcessedAt()

			assert.ErrorIs(t, tx.MarkAsCompleted(), apperrors.ErrInvalidStateTransition)
			assert.ErrorIs(t, tx.MarkAsFailed("again"), apperrors.ErrInvalidStateTransition)
			assert.ErrorIs(t, tx.MarkAsCancelled("again"), apperrors.ErrInvalidStateTransition)
			assert.Equal(t, status, tx.Status())
			assert.Equal(t, processed, *tx.ProcessedAt())
			assert.True(t, tx.Status().IsTerminal())
		})
	}
}

func TestTransactionType_SettlesExternally(t *testing.T) {
	assert.True(t, TransactionTypeWithdrawal.SettlesExternally())
	assert.True(t, TransactionTypeExternalTransfer.SettlesExternally())
	assert.False(t, TransactionTypeDeposit.SettlesExternally())
	assert.False(t, TransactionTypeInternalTransfer.SettlesExternally())
}
