package domain

import (
	"strings"
	"time"

	apperrors "ledgerpay/internal/errors"
)

// TransactionType is the kind of money movement recorded.
type TransactionType string

const (
	TransactionTypeInternalTransfer TransactionType = "InternalTransfer"
	TransactionTypeExternalTransfer TransactionType = "ExternalTransfer"
	TransactionTypeDeposit          TransactionType = "Deposit"
	TransactionTypeWithdrawal       TransactionType = "Withdrawal"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeInternalTransfer, TransactionTypeExternalTransfer,
		TransactionTypeDeposit, TransactionTypeWithdrawal:
		return true
	}
	return false
}

// SettlesExternally reports whether the counterparty of the type is a bank
// outside the ledger.
func (t TransactionType) SettlesExternally() bool {
	return t == TransactionTypeWithdrawal || t == TransactionTypeExternalTransfer
}

// TransactionStatus is a state of the lifecycle Pending -> Completed | Failed | Cancelled.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "Pending"
	TransactionStatusCompleted TransactionStatus = "Completed"
	TransactionStatusFailed    TransactionStatus = "Failed"
	TransactionStatusCancelled TransactionStatus = "Cancelled"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusCompleted,
		TransactionStatusFailed, TransactionStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition may leave s.
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusFailed || s == TransactionStatusCancelled
}

const (
	MaxDescriptionLength   = 500
	MaxAccountNumberLength = 50
	MaxBankNameLength      = 100
)

// ExternalAccount identifies a bank account outside the ledger.
type ExternalAccount struct {
	AccountNumber string
	BankName      string
}

func (a ExternalAccount) validate() error {
	if strings.TrimSpace(a.AccountNumber) == "" {
		return apperrors.NewField(apperrors.CodeInvalidArgument, "external_account_number", "external account number is required")
	}
	if strings.TrimSpace(a.BankName) == "" {
		return apperrors.NewField(apperrors.CodeInvalidArgument, "external_bank_name", "external bank name is required")
	}
	if len([]rune(a.AccountNumber)) > MaxAccountNumberLength {
		return apperrors.NewField(apperrors.CodeInvalidArgument, "external_account_number", "external account number must not exceed 50 characters")
	}
	if len([]rune(a.BankName)) > MaxBankNameLength {
		return apperrors.NewField(apperrors.CodeInvalidArgument, "external_bank_name", "external bank name must not exceed 100 characters")
	}
	return nil
}

// Transaction is the append-only record of one money movement.
type Transaction struct {
	id            uint
	fromWalletID  *uint
	toWalletID    *uint
	external      *ExternalAccount
	amount        Money
	txType        TransactionType
	status        TransactionStatus
	description   string
	reference     string
	processedAt   *time.Time
	failureReason string
	createdAt     time.Time
}

// TransactionState is the persisted shape of a transaction.
type TransactionState struct {
	ID              uint
	FromWalletID    *uint
	ToWalletID      *uint
	ExternalAccount *ExternalAccount
	Amount          Money
	Type            TransactionType
	Status          TransactionStatus
	Description     string
	ReferenceNumber string
	ProcessedAt     *time.Time
	FailureReason   string
	CreatedAt       time.Time
}

// NewDeposit records money entering toWalletID from outside the ledger.
func NewDeposit(toWalletID uint, amount Money, description, reference string) (*Transaction, error) {
	if toWalletID == 0 {
		return nil, apperrors.NewField(apperrors.CodeInvalidArgument, "to_wallet_id", "destination wallet id must be positive")
	}
	return newTransaction(TransactionTypeDeposit, nil, &toWalletID, nil, amount, description, reference)
}

// NewWithdrawal records money leaving fromWalletID to an external account.
func NewWithdrawal(fromWalletID uint, account ExternalAccount, amount Money, description, reference string) (*Transaction, error) {
	if fromWalletID == 0 {
		return nil, apperrors.NewField(apperrors.CodeInvalidArgument, "from_wallet_id", "source wallet id must be positive")
	}
	if err := account.validate(); err != nil {
		return nil, err
	}
	return newTransaction(TransactionTypeWithdrawal, &fromWalletID, nil, &account, amount, description, reference)
}

// NewInternalTransfer records money moving between two ledger wallets.
func NewInternalTransfer(fromWalletID, toWalletID uint, amount Money, description, reference string) (*Transaction, error) {
	if fromWalletID == 0 || toWalletID == 0 {
		return nil, apperrors.NewField(apperrors.CodeInvalidArgument, "wallet_id", "wallet ids must be positive")
	}
	if fromWalletID == toWalletID {
		return nil, apperrors.NewField(apperrors.CodeInvalidArgument, "to_wallet_id", "cannot transfer to the same wallet")
	}
	return newTransaction(TransactionTypeInternalTransfer, &fromWalletID, &toWalletID, nil, amount, description, reference)
}

// NewExternalTransfer records money sent from fromWalletID to another bank.
func NewExternalTransfer(fromWalletID uint, account ExternalAccount, amount Money, description, reference string) (*Transaction, error) {
	if fromWalletID == 0 {
		return nil, apperrors.NewField(apperrors.CodeInvalidArgument, "from_wallet_id", "source wallet id must be positive")
	}
	if err := account.validate(); err != nil {
		return nil, err
	}
	return newTransaction(TransactionTypeExternalTransfer, &fromWalletID, nil, &account, amount, description, reference)
}

func newTransaction(t TransactionType, from, to *uint, account *ExternalAccount, amount Money, description, reference string) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}
	if len([]rune(description)) > MaxDescriptionLength {
		return nil, apperrors.NewField(apperrors.CodeInvalidArgument, "description", "description must not exceed 500 characters")
	}
	if !IsValidReference(reference) {
		return nil, apperrors.NewField(apperrors.CodeInvalidArgument, "reference_number", "malformed reference number")
	}
	return &Transaction{
		fromWalletID: from,
		toWalletID:   to,
		external:     account,
		amount:       amount,
		txType:       t,
		status:       TransactionStatusPending,
		description:  strings.TrimSpace(description),
		reference:    reference,
		createdAt:    now(),
	}, nil
}

// RestoreTransaction rehydrates a transaction loaded from the store.
func RestoreTransaction(s TransactionState) *Transaction {
	return &Transaction{
		id:            s.ID,
		fromWalletID:  s.FromWalletID,
		toWalletID:    s.ToWalletID,
		external:      s.ExternalAccount,
		amount:        s.Amount,
		txType:        s.Type,
		status:        s.Status,
		description:   s.Description,
		reference:     s.ReferenceNumber,
		processedAt:   s.ProcessedAt,
		failureReason: s.FailureReason,
		createdAt:     s.CreatedAt,
	}
}

func (t *Transaction) ID() uint                          { return t.id }
func (t *Transaction) FromWalletID() *uint               { return t.fromWalletID }
func (t *Transaction) ToWalletID() *uint                 { return t.toWalletID }
func (t *Transaction) ExternalAccount() *ExternalAccount { return t.external }
func (t *Transaction) Amount() Money                     { return t.amount }
func (t *Transaction) Type() TransactionType             { return t.txType }
func (t *Transaction) Status() TransactionStatus         { return t.status }
func (t *Transaction) Description() string               { return t.description }
func (t *Transaction) ReferenceNumber() string           { return t.reference }
func (t *Transaction) ProcessedAt() *time.Time           { return t.processedAt }
func (t *Transaction) FailureReason() string             { return t.failureReason }
func (t *Transaction) CreatedAt() time.Time              { return t.createdAt }

// State returns a snapshot of the transaction.
func (t *Transaction) State() TransactionState {
	return TransactionState{
		ID:              t.id,
		FromWalletID:    t.fromWalletID,
		ToWalletID:      t.toWalletID,
		ExternalAccount: t.external,
		Amount:          t.amount,
		Type:            t.txType,
		Status:          t.status,
		Description:     t.description,
		ReferenceNumber: t.reference,
		ProcessedAt:     t.processedAt,
		FailureReason:   t.failureReason,
		CreatedAt:       t.createdAt,
	}
}

// MarkStored assigns the identity chosen by the store.
func (t *Transaction) MarkStored(id uint) {
	t.id = id
}

// MarkAsCompleted moves a pending transaction to Completed.
func (t *Transaction) MarkAsCompleted() error {
	if err := t.ensurePending(TransactionStatusCompleted); err != nil {
		return err
	}
	t.finish(TransactionStatusCompleted, "")
	return nil
}

// MarkAsFailed moves a pending transaction to Failed. reason is required.
func (t *Transaction) MarkAsFailed(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return apperrors.NewField(apperrors.CodeInvalidArgument, "reason", "failure reason is required")
	}
	if err := t.ensurePending(TransactionStatusFailed); err != nil {
		return err
	}
	t.finish(TransactionStatusFailed, reason)
	return nil
}

// MarkAsCancelled moves a pending transaction to Cancelled. reason may be empty.
func (t *Transaction) MarkAsCancelled(reason string) error {
	if err := t.ensurePending(TransactionStatusCancelled); err != nil {
		return err
	}
	t.finish(TransactionStatusCancelled, reason)
	return nil
}

func (t *Transaction) ensurePending(target TransactionStatus) error {
	if t.status != TransactionStatusPending {
		return &apperrors.DomainError{
			Code:    apperrors.CodeInvalidStateTransition,
			Message: "cannot move transaction from " + string(t.status) + " to " + string(target),
		}
	}
	return nil
}

func (t *Transaction) finish(status TransactionStatus, reason string) {
	ts := now()
	t.status = status
	t.processedAt = &ts
	t.failureReason = strings.TrimSpace(reason)
}

// AuditEntity, AuditID and AuditFields expose the transaction to audit capture.
func (t *Transaction) AuditEntity() string { return "Transaction" }
func (t *Transaction) AuditID() uint       { return t.id }

func (t *Transaction) AuditFields() map[string]any {
	fields := map[string]any{
		"FromWalletId":    uintOrNil(t.fromWalletID),
		"ToWalletId":      uintOrNil(t.toWalletID),
		"Amount":          t.amount.amount.StringFixed(MoneyScale),
		"Currency":        string(t.amount.currency),
		"Type":            string(t.txType),
		"Status":          string(t.status),
		"Description":     t.description,
		"ReferenceNumber": t.reference,
		"ProcessedAt":     nil,
		"FailureReason":   t.failureReason,
	}
	if t.processedAt != nil {
		fields["ProcessedAt"] = t.processedAt.Format(time.RFC3339Nano)
	}
	if t.external != nil {
		fields["ExternalAccountNumber"] = t.external.AccountNumber
		fields["ExternalBankName"] = t.external.BankName
	}
	return fields
}

func uintOrNil(v *uint) any {
	if v == nil {
		return nil
	}
	return *v
}
