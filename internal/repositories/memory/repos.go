package memory

import (
	"context"
	"sort"

	"ledgerpay/internal/domain"
	apperrors "ledgerpay/internal/errors"
	"ledgerpay/internal/repositories"
)

type walletRepo struct{ s *scope }

func (r *walletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id := r.s.u.nextID()
	w.MarkStored(id)
	r.s.wallets[id] = w.State()
	if r.s.tracker != nil {
		r.s.tracker.Added(w)
	}
	return r.s.written()
}

func (r *walletRepo) GetByID(ctx context.Context, id uint) (*domain.Wallet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	st, ok := r.s.wallet(id)
	if !ok {
		return nil, apperrors.ErrWalletNotFound
	}
	return r.loaded(st), nil
}

func (r *walletRepo) GetActiveByID(ctx context.Context, id uint) (*domain.Wallet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	st, ok := r.s.wallet(id)
	if !ok || !st.IsActive {
		return nil, apperrors.ErrWalletNotFound
	}
	return r.loaded(st), nil
}

func (r *walletRepo) ListActiveByUser(ctx context.Context, userID uint) ([]*domain.Wallet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []*domain.Wallet
	for _, st := range r.s.allWallets() {
		if st.UserID == userID && st.IsActive {
			out = append(out, r.loaded(st))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt().Before(out[j].CreatedAt()) })
	return out, nil
}

func (r *walletRepo) Update(ctx context.Context, w *domain.Wallet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.Version() == w.StoredVersion() {
		return nil
	}
	if _, ok := r.s.walletExpected[w.ID()]; !ok {
		r.s.walletExpected[w.ID()] = w.StoredVersion()
	}
	r.s.wallets[w.ID()] = w.State()
	w.MarkStored(w.ID())
	if r.s.tracker != nil {
		r.s.tracker.Modified(w)
	}
	return r.s.written()
}

func (r *walletRepo) IBANExists(ctx context.Context, iban domain.IBAN) (bool, error) {
	for _, st := range r.s.allWallets() {
		if st.IBAN == iban {
			return true, nil
		}
	}
	return false, ctx.Err()
}

func (r *walletRepo) loaded(st domain.WalletState) *domain.Wallet {
	w := domain.RestoreWallet(st)
	if r.s.tracker != nil {
		r.s.tracker.Loaded(w)
	}
	return w
}

type transactionRepo struct{ s *scope }

func (r *transactionRepo) Create(ctx context.Context, tx *domain.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, t := range r.s.allTransactions() {
		if t.ReferenceNumber == tx.ReferenceNumber() {
			return apperrors.ErrReferenceCollision
		}
	}
	id := r.s.u.nextID()
	tx.MarkStored(id)
	r.s.txs[id] = tx.State()
	if r.s.tracker != nil {
		r.s.tracker.Added(tx)
	}
	return r.s.written()
}

func (r *transactionRepo) Update(ctx context.Context, tx *domain.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	current, ok := r.s.transaction(tx.ID())
	if !ok || current.Status != domain.TransactionStatusPending {
		return apperrors.ErrConcurrencyConflict
	}
	if _, staged := r.s.txs[tx.ID()]; !staged {
		r.s.txUpdated[tx.ID()] = true
	}
	r.s.txs[tx.ID()] = tx.State()
	if r.s.tracker != nil {
		r.s.tracker.Modified(tx)
	}
	return r.s.written()
}

func (r *transactionRepo) GetByID(ctx context.Context, id uint) (*domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	st, ok := r.s.transaction(id)
	if !ok {
		return nil, apperrors.ErrTransactionNotFound
	}
	return r.loaded(st), nil
}

func (r *transactionRepo) GetByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, st := range r.s.allTransactions() {
		if st.ReferenceNumber == reference {
			return r.loaded(st), nil
		}
	}
	return nil, apperrors.ErrTransactionNotFound
}

func (r *transactionRepo) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	for _, st := range r.s.allTransactions() {
		if st.ReferenceNumber == reference {
			return true, nil
		}
	}
	return false, ctx.Err()
}

func (r *transactionRepo) History(ctx context.Context, filter repositories.TransactionFilter) ([]*domain.Transaction, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	filter = filter.Normalize()

	var matched []*domain.Transaction
	for _, st := range r.s.allTransactions() {
		tx := domain.RestoreTransaction(st)
		if filter.Matches(tx) {
			matched = append(matched, tx)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.CreatedAt().Equal(b.CreatedAt()) {
			return a.CreatedAt().After(b.CreatedAt())
		}
		return a.ID() > b.ID()
	})

	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return []*domain.Transaction{}, total, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[filter.Offset:end], total, nil
}

func (r *transactionRepo) loaded(st domain.TransactionState) *domain.Transaction {
	tx := domain.RestoreTransaction(st)
	if r.s.tracker != nil {
		r.s.tracker.Loaded(tx)
	}
	return tx
}

type userRepo struct{ s *scope }

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, st := range r.s.allUsers() {
		if st.Email == user.Email() {
			return apperrors.ErrDuplicateEmail
		}
	}
	id := r.s.u.nextID()
	user.MarkStored(id)
	r.s.users[id] = user.State()
	if r.s.tracker != nil {
		r.s.tracker.Added(user)
	}
	return r.s.written()
}

func (r *userRepo) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, st := range r.s.allUsers() {
		if st.ID == id {
			return domain.RestoreUser(st), nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	email = domain.NormalizeEmail(email)
	for _, st := range r.s.allUsers() {
		if st.Email == email {
			return domain.RestoreUser(st), nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

type auditRepo struct{ u *UnitOfWork }

func (r *auditRepo) CreateBatch(ctx context.Context, logs []*domain.AuditLog) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	for _, l := range logs {
		r.u.seq++
		l.MarkStored(r.u.seq)
		r.u.audits = append(r.u.audits, l.State())
	}
	return ctx.Err()
}

func (r *auditRepo) ListByEntity(ctx context.Context, entityName string, entityID uint) ([]*domain.AuditLog, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	var out []*domain.AuditLog
	for _, st := range r.u.audits {
		if st.EntityName == entityName && st.EntityID == entityID {
			out = append(out, domain.RestoreAuditLog(st))
		}
	}
	return out, ctx.Err()
}
