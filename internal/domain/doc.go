// Package domain holds the ledger aggregates: money, wallets, transactions,
// users and audit records.
//
// Aggregates expose no settable fields. They are built through validating
// factories (NewWallet, NewDeposit, ...) or rehydrated by the store through the
// Restore* functions, and change state only through their guarded mutators.
// The *State structs are plain snapshots used by the persistence layer.
package domain

import "time"

// now is the clock used by every aggregate. Tests replace it to pin time.
var now = func() time.Time {
	return time.Now().UTC()
}
