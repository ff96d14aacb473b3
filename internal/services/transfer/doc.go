/*
Package transfer moves money between wallets.

Every operation runs as one unit of work: the wallets are loaded and checked,
the pending transaction record is created and the balances are mutated, then
everything commits together with its audit trail. A stale wallet version makes
the commit fail with CONCURRENCY_CONFLICT; the caller decides whether to resend.

Usage:

	svc := transfer.NewService(uow, domain.NewReferenceGenerator(), publisher, nil, log, transfer.Config{})

	res, err := svc.InternalTransfer(ctx, transfer.InternalTransferRequest{
	    FromWalletID: 1,
	    ToWalletID:   2,
	    Amount:       decimal.RequireFromString("20.00"),
	    Currency:     domain.CurrencyTRY,
	})

Completion:

Deposits and internal transfers settle inside the ledger and are marked
Completed in a second commit. Withdrawals and external transfers stay Pending
until Settle or Cancel resolves them, unless the service is configured with
CompleteAll. A failed or cancelled external movement refunds its source wallet.
*/
package transfer
