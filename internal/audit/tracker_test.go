package audit

import (
	"context"
	"encoding/json"
	"testing"

	"ledgerpay/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoredWallet(id uint, balance string) *domain.Wallet {
	m := domain.MustMoney(balance, domain.CurrencyTRY)
	return domain.RestoreWallet(domain.WalletState{
		ID:       id,
		UserID:   9,
		Name:     "Main",
		IBAN:     "GB82WEST12345698765432",
		Currency: domain.CurrencyTRY,
		Balance:  m.Amount(),
		IsActive: true,
		Version:  3,
	})
}

func TestActorContext(t *testing.T) {
	assert.Equal(t, Actor{}, ActorFromContext(context.Background()))

	id := uint(42)
	ctx := WithActor(context.Background(), Actor{UserID: &id, Email: "a@b.io", IPAddress: "10.0.0.1"})
	got := ActorFromContext(ctx)
	require.NotNil(t, got.UserID)
	assert.Equal(t, uint(42), *got.UserID)
	assert.Equal(t, "a@b.io", got.Email)
	assert.Equal(t, "10.0.0.1", got.IPAddress)
}

func TestTracker_UpdatedProducesDiff(t *testing.T) {
	tr := NewTracker()
	w := restoredWallet(1, "100.00")
	tr.Loaded(w)

	require.NoError(t, w.Debit(domain.MustMoney("25.00", domain.CurrencyTRY)))
	tr.Modified(w)

	id := uint(5)
	logs, err := tr.Entries(Actor{UserID: &id, Email: "ops@ledger.io", IPAddress: "127.0.0.1"})
	require.NoError(t, err)
	require.Len(t, logs, 1)

	log := logs[0]
	assert.Equal(t, "Wallet", log.EntityName())
	assert.Equal(t, uint(1), log.EntityID())
	assert.Equal(t, domain.AuditActionUpdated, log.Action())
	assert.Equal(t, "ops@ledger.io", log.UserEmail())
	assert.Equal(t, "127.0.0.1", log.IPAddress())

	var diff map[string]Change
	require.NoError(t, json.Unmarshal([]byte(log.Changes()), &diff))
	assert.Equal(t, "100.00", diff["Balance"].OldValue)
	assert.Equal(t, "75.00", diff["Balance"].NewValue)
	assert.Contains(t, diff, "Version")
	assert.Contains(t, diff, "UpdatedAt")
	assert.NotContains(t, diff, "Name")
	assert.NotContains(t, diff, "Currency")
}

func TestTracker_CreatedHasNoDiff(t *testing.T) {
	tr := NewTracker()
	tx, err := domain.NewDeposit(1, domain.MustMoney("10", domain.CurrencyTRY), "", "TXN-20240301-AAAAAAAA")
	require.NoError(t, err)
	tx.MarkStored(11)
	tr.Added(tx)

	logs, err := tr.Entries(Actor{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.AuditActionCreated, logs[0].Action())
	assert.Equal(t, "Transaction", logs[0].EntityName())
	assert.Equal(t, uint(11), logs[0].EntityID())
	assert.Empty(t, logs[0].Changes())
	assert.Nil(t, logs[0].UserID())
}

func TestTracker_SkipsUntouchedAndUnchanged(t *testing.T) {
	tr := NewTracker()
	readOnly := restoredWallet(1, "10")
	tr.Loaded(readOnly)

	noop := restoredWallet(2, "10")
	tr.Loaded(noop)
	tr.Modified(noop)

	logs, err := tr.Entries(Actor{})
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestTracker_TouchedIncludesUnchangedWrites(t *testing.T) {
	tr := NewTracker()
	tr.Loaded(restoredWallet(1, "10"))

	noop := restoredWallet(2, "10")
	tr.Loaded(noop)
	tr.Modified(noop)

	tx, err := domain.NewDeposit(2, domain.MustMoney("1", domain.CurrencyTRY), "", "TXN-20240101-AAAAAAAA")
	require.NoError(t, err)
	tx.MarkStored(7)
	tr.Added(tx)

	assert.Equal(t, []EntityRef{{Name: "Wallet", ID: 2}, {Name: "Transaction", ID: 7}}, tr.Touched())

	tr.Reset()
	assert.Empty(t, tr.Touched())
}

func TestTracker_OrderAndDelete(t *testing.T) {
	tr := NewTracker()
	a := restoredWallet(1, "50")
	b := restoredWallet(2, "0")
	tr.Loaded(a)
	tr.Loaded(b)

	require.NoError(t, a.Debit(domain.MustMoney("5", domain.CurrencyTRY)))
	require.NoError(t, b.Credit(domain.MustMoney("5", domain.CurrencyTRY)))
	tr.Modified(b)
	tr.Modified(a)
	tr.Removed(restoredWallet(3, "0"))

	logs, err := tr.Entries(Actor{})
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, uint(1), logs[0].EntityID())
	assert.Equal(t, uint(2), logs[1].EntityID())
	assert.Equal(t, domain.AuditActionDeleted, logs[2].Action())

	tr.Reset()
	logs, err = tr.Entries(Actor{})
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestDiff(t *testing.T) {
	diff := Diff(
		map[string]any{"a": 1, "b": "x", "gone": true},
		map[string]any{"a": 1, "b": "y", "new": nil},
	)
	assert.Equal(t, map[string]Change{
		"b":    {OldValue: "x", NewValue: "y"},
		"gone": {OldValue: true},
		"new":  {OldValue: nil, NewValue: nil},
	}, diff)
}
