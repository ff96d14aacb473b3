// Package memory is an in-process implementation of the repositories
// contracts. It stages writes per scope and validates wallet versions at
// commit, so it reproduces the optimistic concurrency behavior of the SQL
// store. Intended for tests and local tooling.
package memory

import (
	"context"
	"sort"
	"sync"

	"ledgerpay/internal/audit"
	"ledgerpay/internal/domain"
	apperrors "ledgerpay/internal/errors"
	"ledgerpay/internal/repositories"
)

// UnitOfWork is safe for concurrent use.
type UnitOfWork struct {
	mu        sync.Mutex
	seq       uint
	wallets   map[uint]domain.WalletState
	txs       map[uint]domain.TransactionState
	users     map[uint]domain.UserState
	audits    []domain.AuditLogState
	listeners []repositories.CommitListener

	// FailAudit makes every audit insert fail, the way a broken audit table
	// would. Business writes still commit.
	FailAudit bool

	// BeforeCommit, when set, runs inside ExecuteInTransaction after fn
	// returned and before the commit is validated.
	BeforeCommit func(ctx context.Context)
}

var _ repositories.UnitOfWork = (*UnitOfWork)(nil)

func New(listeners ...repositories.CommitListener) *UnitOfWork {
	return &UnitOfWork{
		wallets:   make(map[uint]domain.WalletState),
		txs:       make(map[uint]domain.TransactionState),
		users:     make(map[uint]domain.UserState),
		listeners: listeners,
	}
}

func (u *UnitOfWork) Wallets() repositories.WalletRepository {
	return &walletRepo{s: u.direct()}
}

func (u *UnitOfWork) Transactions() repositories.TransactionRepository {
	return &transactionRepo{s: u.direct()}
}

func (u *UnitOfWork) Users() repositories.UserRepository {
	return &userRepo{s: u.direct()}
}

func (u *UnitOfWork) AuditLogs() repositories.AuditLogRepository {
	return &auditRepo{u: u}
}

func (u *UnitOfWork) ExecuteInTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Store) error) error {
	s := u.newScope(audit.NewTracker(), false)
	if err := fn(ctx, s); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if u.BeforeCommit != nil {
		u.BeforeCommit(ctx)
	}
	committed, err := s.commit(ctx)
	if err != nil {
		return err
	}
	for _, l := range u.listeners {
		l(ctx, committed)
	}
	return nil
}

// SeedWallet stores w as committed state and returns its id.
func (u *UnitOfWork) SeedWallet(w *domain.Wallet) uint {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.seq++
	w.MarkStored(u.seq)
	u.wallets[u.seq] = w.State()
	return u.seq
}

// SeedUser stores user as committed state and returns its id.
func (u *UnitOfWork) SeedUser(user *domain.User) uint {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.seq++
	user.MarkStored(u.seq)
	u.users[u.seq] = user.State()
	return u.seq
}

// WalletState returns the committed state of wallet id.
func (u *UnitOfWork) WalletState(id uint) (domain.WalletState, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	s, ok := u.wallets[id]
	return s, ok
}

// TransactionCount returns the number of committed transactions.
func (u *UnitOfWork) TransactionCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.txs)
}

// AuditStates returns every committed audit record in insertion order.
func (u *UnitOfWork) AuditStates() []domain.AuditLogState {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]domain.AuditLogState, len(u.audits))
	copy(out, u.audits)
	return out
}

func (u *UnitOfWork) nextID() uint {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.seq++
	return u.seq
}

func (u *UnitOfWork) direct() *scope {
	return u.newScope(nil, true)
}

func (u *UnitOfWork) newScope(tracker *audit.Tracker, direct bool) *scope {
	return &scope{
		u:              u,
		tracker:        tracker,
		direct:         direct,
		wallets:        make(map[uint]domain.WalletState),
		walletExpected: make(map[uint]int64),
		txs:            make(map[uint]domain.TransactionState),
		txUpdated:      make(map[uint]bool),
		users:          make(map[uint]domain.UserState),
	}
}

// scope holds the writes of one unit of work until commit. A direct scope
// commits after every write.
type scope struct {
	u       *UnitOfWork
	tracker *audit.Tracker
	direct  bool

	wallets        map[uint]domain.WalletState
	walletExpected map[uint]int64
	txs            map[uint]domain.TransactionState
	txUpdated      map[uint]bool
	users          map[uint]domain.UserState
}

func (s *scope) Wallets() repositories.WalletRepository           { return &walletRepo{s: s} }
func (s *scope) Transactions() repositories.TransactionRepository { return &transactionRepo{s: s} }
func (s *scope) Users() repositories.UserRepository               { return &userRepo{s: s} }
func (s *scope) AuditLogs() repositories.AuditLogRepository       { return &auditRepo{u: s.u} }

func (s *scope) written() error {
	if !s.direct {
		return nil
	}
	_, err := s.commit(context.Background())
	return err
}

func (s *scope) commit(ctx context.Context) (repositories.Commit, error) {
	u := s.u
	u.mu.Lock()
	defer u.mu.Unlock()

	for id, expected := range s.walletExpected {
		current, ok := u.wallets[id]
		if !ok || current.Version != expected {
			return repositories.Commit{}, apperrors.ErrConcurrencyConflict
		}
	}
	for id, w := range s.wallets {
		if _, existing := s.walletExpected[id]; existing {
			continue
		}
		for _, other := range u.wallets {
			if other.IBAN == w.IBAN {
				return repositories.Commit{}, apperrors.Wrap(apperrors.CodeUnclassified, "duplicate iban", nil)
			}
		}
	}
	for id, t := range s.txs {
		if s.txUpdated[id] {
			current, ok := u.txs[id]
			if !ok || current.Status != domain.TransactionStatusPending {
				return repositories.Commit{}, apperrors.ErrConcurrencyConflict
			}
			continue
		}
		for _, other := range u.txs {
			if other.ReferenceNumber == t.ReferenceNumber {
				return repositories.Commit{}, apperrors.ErrReferenceCollision
			}
		}
	}
	for id, user := range s.users {
		for otherID, other := range u.users {
			if otherID != id && other.Email == user.Email {
				return repositories.Commit{}, apperrors.ErrDuplicateEmail
			}
		}
	}

	var committed repositories.Commit
	if s.tracker != nil {
		committed.Touched = s.tracker.Touched()
		entries, err := s.tracker.Entries(audit.ActorFromContext(ctx))
		if err == nil {
			committed.AuditLogs = entries
			if !u.FailAudit {
				for _, l := range entries {
					u.seq++
					l.MarkStored(u.seq)
					u.audits = append(u.audits, l.State())
				}
				committed.AuditStored = true
			}
		}
	}

	for id, w := range s.wallets {
		u.wallets[id] = w
	}
	for id, t := range s.txs {
		u.txs[id] = t
	}
	for id, user := range s.users {
		u.users[id] = user
	}

	s.wallets = make(map[uint]domain.WalletState)
	s.walletExpected = make(map[uint]int64)
	s.txs = make(map[uint]domain.TransactionState)
	s.txUpdated = make(map[uint]bool)
	s.users = make(map[uint]domain.UserState)
	return committed, nil
}

func (s *scope) wallet(id uint) (domain.WalletState, bool) {
	if w, ok := s.wallets[id]; ok {
		return w, true
	}
	s.u.mu.Lock()
	defer s.u.mu.Unlock()
	w, ok := s.u.wallets[id]
	return w, ok
}

func (s *scope) transaction(id uint) (domain.TransactionState, bool) {
	if t, ok := s.txs[id]; ok {
		return t, true
	}
	s.u.mu.Lock()
	defer s.u.mu.Unlock()
	t, ok := s.u.txs[id]
	return t, ok
}

// allTransactions merges committed rows with the rows staged in s.
func (s *scope) allTransactions() []domain.TransactionState {
	s.u.mu.Lock()
	merged := make(map[uint]domain.TransactionState, len(s.u.txs)+len(s.txs))
	for id, t := range s.u.txs {
		merged[id] = t
	}
	s.u.mu.Unlock()
	for id, t := range s.txs {
		merged[id] = t
	}
	out := make([]domain.TransactionState, 0, len(merged))
	for _, t := range merged {
		out = append(out, t)
	}
	return out
}

func (s *scope) allWallets() []domain.WalletState {
	s.u.mu.Lock()
	merged := make(map[uint]domain.WalletState, len(s.u.wallets)+len(s.wallets))
	for id, w := range s.u.wallets {
		merged[id] = w
	}
	s.u.mu.Unlock()
	for id, w := range s.wallets {
		merged[id] = w
	}
	out := make([]domain.WalletState, 0, len(merged))
	for _, w := range merged {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *scope) allUsers() []domain.UserState {
	s.u.mu.Lock()
	merged := make(map[uint]domain.UserState, len(s.u.users)+len(s.users))
	for id, user := range s.u.users {
		merged[id] = user
	}
	s.u.mu.Unlock()
	for id, user := range s.users {
		merged[id] = user
	}
	out := make([]domain.UserState, 0, len(merged))
	for _, user := range merged {
		out = append(out, user)
	}
	return out
}
