package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"ledgerpay/internal/domain"
	apperrors "ledgerpay/internal/errors"
	"ledgerpay/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=test dbname=test sslmode=disable"}), &gorm.Config{
		DryRun:                 true,
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	require.NoError(t, err)
	return db
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		notFound error
		wantCode apperrors.Code
	}{
		{name: "record not found", err: gorm.ErrRecordNotFound, notFound: apperrors.ErrWalletNotFound, wantCode: apperrors.CodeWalletNotFound},
		{name: "reference unique violation", err: &pgconn.PgError{Code: "23505", ConstraintName: constraintReference}, wantCode: apperrors.CodeReferenceCollision},
		{name: "email unique violation", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: constraintEmail}), wantCode: apperrors.CodeDuplicateEmail},
		{name: "other unique violation", err: &pgconn.PgError{Code: "23505", ConstraintName: "idx_wallets_iban"}, wantCode: apperrors.CodeUnclassified},
		{name: "domain error passes through", err: apperrors.ErrConcurrencyConflict, wantCode: apperrors.CodeConcurrencyConflict},
		{name: "driver failure", err: errors.New("connection reset"), wantCode: apperrors.CodeUnclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(tt.err, "op", tt.notFound)
			require.Error(t, got)
			assert.Equal(t, tt.wantCode, apperrors.CodeOf(got))
		})
	}

	assert.NoError(t, translate(nil, "op", nil))
}

func TestTransactionFilter_Normalize(t *testing.T) {
	f := TransactionFilter{}.Normalize()
	assert.Equal(t, DefaultHistoryLimit, f.Limit)

	f = TransactionFilter{Limit: 1000, Offset: -5}.Normalize()
	assert.Equal(t, MaxHistoryLimit, f.Limit)
	assert.Equal(t, 0, f.Offset)
}

func TestTransactionFilter_Matches(t *testing.T) {
	tx, err := domain.NewInternalTransfer(1, 2, domain.MustMoney("50", domain.CurrencyTRY), "", "TXN-20240301-AAAAAAAA")
	require.NoError(t, err)

	wallet := func(id uint) *uint { return &id }
	typ := domain.TransactionTypeDeposit
	status := domain.TransactionStatusPending
	low := decimal.NewFromInt(10)
	high := decimal.NewFromInt(40)
	future := time.Now().Add(time.Hour)

	assert.True(t, TransactionFilter{}.Matches(tx))
	assert.True(t, TransactionFilter{WalletID: wallet(1)}.Matches(tx))
	assert.True(t, TransactionFilter{WalletID: wallet(2)}.Matches(tx))
	assert.False(t, TransactionFilter{WalletID: wallet(3)}.Matches(tx))
	assert.False(t, TransactionFilter{Type: &typ}.Matches(tx))
	assert.True(t, TransactionFilter{Status: &status}.Matches(tx))
	assert.True(t, TransactionFilter{MinAmount: &low}.Matches(tx))
	assert.False(t, TransactionFilter{MaxAmount: &high}.Matches(tx))
	assert.False(t, TransactionFilter{From: &future}.Matches(tx))
}

func TestHistoryQuery(t *testing.T) {
	db := dryRunDB(t)
	walletID := uint(7)
	typ := domain.TransactionTypeWithdrawal
	minAmount := decimal.NewFromInt(5)

	var rows []models.Transaction
	stmt := historyQuery(db.Model(&models.Transaction{}), TransactionFilter{
		WalletID:  &walletID,
		Type:      &typ,
		MinAmount: &minAmount,
	}).Find(&rows).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "(from_wallet_id = $1 OR to_wallet_id = $2)")
	assert.Contains(t, sql, "type = $3")
	assert.Contains(t, sql, "amount >= $4")
	assert.NotContains(t, sql, "status")
	require.Len(t, stmt.Vars, 4)
	assert.Equal(t, walletID, stmt.Vars[0])
	assert.Equal(t, "Withdrawal", stmt.Vars[2])
}

func TestWalletUpdate_ConditionsOnStoredVersion(t *testing.T) {
	db := dryRunDB(t)
	w := domain.RestoreWallet(domain.WalletState{ID: 3, UserID: 1, Name: "Main", Currency: domain.CurrencyTRY, IsActive: true, Version: 4})
	require.NoError(t, w.Credit(domain.MustMoney("1", domain.CurrencyTRY)))

	var captured string
	err := db.Callback().Update().After("gorm:update").Register("test:capture", func(tx *gorm.DB) {
		captured = tx.Statement.SQL.String()
		tx.RowsAffected = 1
	})
	require.NoError(t, err)

	repo := NewWalletRepository(db)
	require.NoError(t, repo.Update(context.Background(), w))
	assert.Contains(t, captured, `UPDATE "wallets" SET`)
	assert.Contains(t, captured, "id = $")
	assert.Contains(t, captured, "version = $")
	assert.Equal(t, int64(5), w.StoredVersion())
}
