package handlers

import (
	"github.com/shopspring/decimal"
)

type registerRequest struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,strong_password"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"omitempty,max=32"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type createWalletRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Currency string `json:"currency" validate:"required,currency"`
}

type renameWalletRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type depositRequest struct {
	ToWalletID  uint            `json:"to_wallet_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"positive_decimal,max_decimal=1000000"`
	Currency    string          `json:"currency" validate:"required,currency"`
	Description string          `json:"description" validate:"max=500"`
}

type withdrawRequest struct {
	FromWalletID  uint            `json:"from_wallet_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"positive_decimal,max_decimal=1000000"`
	Currency      string          `json:"currency" validate:"required,currency"`
	AccountNumber string          `json:"account_number" validate:"required,max=50"`
	BankName      string          `json:"bank_name" validate:"required,max=100"`
	Description   string          `json:"description" validate:"max=500"`
}

type internalTransferRequest struct {
	FromWalletID uint            `json:"from_wallet_id" validate:"required"`
	ToWalletID   uint            `json:"to_wallet_id" validate:"required,nefield=FromWalletID"`
	Amount       decimal.Decimal `json:"amount" validate:"positive_decimal,max_decimal=1000000"`
	Currency     string          `json:"currency" validate:"required,currency"`
	Description  string          `json:"description" validate:"max=500"`
}

type settleRequest struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason" validate:"required_if=Success false,max=500"`
}

type cancelRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}
