/*
Package wallet manages the lifecycle of wallets: opening a wallet with a fresh
IBAN, renaming it and switching it between active and inactive. Balances are
never changed here; money moves through package transfer.

Every write runs in a unit of work so it is audited like any other change.

Usage:

	svc := wallet.NewService(uow, cache, log, wallet.Config{IBANCountry: "TR"})

	w, err := svc.CreateWallet(ctx, wallet.CreateWalletRequest{
	    UserID:   1,
	    Name:     "Main",
	    Currency: domain.CurrencyTRY,
	})

	wallets, err := svc.GetUserWallets(ctx, 1)

Caching:

GetWallet reads through the Cache when one is configured. Writes made here
invalidate the entry directly; writes made by transfers are invalidated by the
cache's commit listener.
*/
package wallet
