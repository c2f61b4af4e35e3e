package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dairycoop/dairyledger/internal/domain"
	"github.com/dairycoop/dairyledger/internal/usecase"
)

// state is one consistent snapshot of every table.
type state struct {
	ledgers   map[string]*domain.Ledger
	postings  []*domain.LedgerPosting
	vouchers  map[string]*domain.Voucher
	sequences map[string]int64
	batches   map[string]*domain.BankTransferBatch
	outbox    []*domain.OutboxEvent
	audit     []*domain.AuditLog
}

func newState() *state {
	return &state{
		ledgers:   make(map[string]*domain.Ledger),
		vouchers:  make(map[string]*domain.Voucher),
		sequences: make(map[string]int64),
		batches:   make(map[string]*domain.BankTransferBatch),
	}
}

func (s *state) clone() *state {
	c := newState()
	for id, l := range s.ledgers {
		c.ledgers[id] = cloneLedger(l)
	}
	c.postings = append(c.postings, s.postings...)
	for id, v := range s.vouchers {
		c.vouchers[id] = cloneVoucher(v)
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	for id, b := range s.batches {
		c.batches[id] = cloneBatch(b)
	}
	c.outbox = append(c.outbox, s.outbox...)
	c.audit = append(c.audit, s.audit...)
	return c
}

func cloneLedger(l *domain.Ledger) *domain.Ledger {
	c := *l
	return &c
}

func cloneVoucher(v *domain.Voucher) *domain.Voucher {
	c := *v
	c.Entries = append([]domain.Entry(nil), v.Entries...)
	if v.ReversalOf != nil {
		id := *v.ReversalOf
		c.ReversalOf = &id
	}
	return &c
}

func cloneBatch(b *domain.BankTransferBatch) *domain.BankTransferBatch {
	c := *b
	c.Details = append([]domain.TransferDetail(nil), b.Details...)
	for i, d := range c.Details {
		if d.TransferredAt != nil {
			at := *d.TransferredAt
			c.Details[i].TransferredAt = &at
		}
	}
	c.CompletedAt = cloneTime(b.CompletedAt)
	c.CancelledAt = cloneTime(b.CancelledAt)
	c.VoucherID = cloneString(b.VoucherID)
	c.ReversalVoucherID = cloneString(b.ReversalVoucherID)
	c.CancelledBy = cloneString(b.CancelledBy)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// Store is an in-memory transactional database for use case tests.
//
// Transactions are serialized: Begin takes the write lock and works on a
// private copy that Commit swaps in. Reads outside a transaction see the
// last committed snapshot.
type Store struct {
	txLock    sync.Mutex
	mu        sync.RWMutex
	committed *state
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{committed: newState()}
}

func (s *Store) snapshot() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.committed
}

// view returns the state a repository call should read and write.
func (s *Store) view(tx usecase.Transaction) *state {
	if t, ok := tx.(*MockTransaction); ok && t != nil && t.work != nil {
		return t.work
	}
	return s.snapshot()
}

// Seed commits ledgers directly.
func (s *Store) Seed(ledgers ...*domain.Ledger) {
	s.txLock.Lock()
	defer s.txLock.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range ledgers {
		s.committed.ledgers[l.ID] = cloneLedger(l)
	}
}

// Ledger returns the committed ledger or nil.
func (s *Store) Ledger(id string) *domain.Ledger {
	st := s.snapshot()
	if l, ok := st.ledgers[id]; ok {
		return cloneLedger(l)
	}
	return nil
}

// LedgerByName returns the committed active ledger with name or nil.
func (s *Store) LedgerByName(name string) *domain.Ledger {
	for _, l := range s.snapshot().ledgers {
		if l.IsActive() && strings.EqualFold(l.Name, name) {
			return cloneLedger(l)
		}
	}
	return nil
}

// VoucherCount is the number of committed vouchers.
func (s *Store) VoucherCount() int {
	return len(s.snapshot().vouchers)
}

// PostingCount is the number of committed ledger postings.
func (s *Store) PostingCount() int {
	return len(s.snapshot().postings)
}

// BatchCount is the number of committed bank transfer batches.
func (s *Store) BatchCount() int {
	return len(s.snapshot().batches)
}

// OutboxEvents returns committed outbox events in insertion order.
func (s *Store) OutboxEvents() []*domain.OutboxEvent {
	return append([]*domain.OutboxEvent(nil), s.snapshot().outbox...)
}

// AuditLogs returns committed audit logs in insertion order.
func (s *Store) AuditLogs() []*domain.AuditLog {
	return append([]*domain.AuditLog(nil), s.snapshot().audit...)
}

// MockTransactionManager is a mock implementation of TransactionManager backed by a Store.
type MockTransactionManager struct {
	store *Store

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager(store *Store) *MockTransactionManager {
	return &MockTransactionManager{store: store}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.store.txLock.Lock()
	return &MockTransaction{store: m.store, work: m.store.snapshot().clone()}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	store *Store
	work  *state
	done  bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	if m.done {
		return fmt.Errorf("transaction already closed")
	}
	m.done = true
	m.store.mu.Lock()
	m.store.committed = m.work
	m.store.mu.Unlock()
	m.store.txLock.Unlock()
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	if m.done {
		return nil
	}
	m.done = true
	m.store.txLock.Unlock()
	return nil
}

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	store *Store

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, ledger *domain.Ledger) error
	UpdateBalanceFunc func(ctx context.Context, tx usecase.Transaction, ledger *domain.Ledger, expectedVersion int64) error
	ListFunc          func(ctx context.Context, filter domain.LedgerFilter) ([]*domain.Ledger, error)
}

func NewMockLedgerRepository(store *Store) *MockLedgerRepository {
	return &MockLedgerRepository{store: store}
}

func activeByName(st *state, name string) *domain.Ledger {
	for _, l := range st.ledgers {
		if l.IsActive() && strings.EqualFold(l.Name, name) {
			return l
		}
	}
	return nil
}

func (m *MockLedgerRepository) Create(ctx context.Context, tx usecase.Transaction, ledger *domain.Ledger) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, ledger)
	}
	st := m.store.view(tx)
	if ledger.IsActive() && activeByName(st, ledger.Name) != nil {
		return domain.ErrDuplicateLedgerName
	}
	st.ledgers[ledger.ID] = cloneLedger(ledger)
	return nil
}

func (m *MockLedgerRepository) Ensure(ctx context.Context, tx usecase.Transaction, ledger *domain.Ledger) (*domain.Ledger, error) {
	st := m.store.view(tx)
	if existing := activeByName(st, ledger.Name); existing != nil {
		return cloneLedger(existing), nil
	}
	st.ledgers[ledger.ID] = cloneLedger(ledger)
	return cloneLedger(ledger), nil
}

func (m *MockLedgerRepository) GetByID(ctx context.Context, id string) (*domain.Ledger, error) {
	if l, ok := m.store.snapshot().ledgers[id]; ok {
		return cloneLedger(l), nil
	}
	return nil, domain.ErrLedgerNotFound
}

func (m *MockLedgerRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Ledger, error) {
	st := m.store.view(tx)
	var ledgers []*domain.Ledger
	for _, id := range ids {
		if l, ok := st.ledgers[id]; ok {
			ledgers = append(ledgers, cloneLedger(l))
		}
	}
	return ledgers, nil
}

func (m *MockLedgerRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, ledger *domain.Ledger, expectedVersion int64) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, ledger, expectedVersion)
	}
	st := m.store.view(tx)
	stored, ok := st.ledgers[ledger.ID]
	if !ok {
		return domain.ErrLedgerNotFound
	}
	if stored.Version != expectedVersion {
		return domain.ErrStaleLedgerVersion
	}
	st.ledgers[ledger.ID] = cloneLedger(ledger)
	return nil
}

func (m *MockLedgerRepository) List(ctx context.Context, filter domain.LedgerFilter) ([]*domain.Ledger, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	var ledgers []*domain.Ledger
	for _, l := range m.store.snapshot().ledgers {
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		if filter.Classification != "" && l.Classification != filter.Classification {
			continue
		}
		ledgers = append(ledgers, cloneLedger(l))
	}
	sort.Slice(ledgers, func(i, j int) bool { return ledgers[i].ID < ledgers[j].ID })
	return paginate(ledgers, filter.Limit, filter.Offset), nil
}

// MockPostingRepository is a mock implementation of PostingRepository.
type MockPostingRepository struct {
	store *Store

	CreateFunc func(ctx context.Context, tx usecase.Transaction, posting *domain.LedgerPosting) error
}

func NewMockPostingRepository(store *Store) *MockPostingRepository {
	return &MockPostingRepository{store: store}
}

func (m *MockPostingRepository) Create(ctx context.Context, tx usecase.Transaction, posting *domain.LedgerPosting) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, posting)
	}
	st := m.store.view(tx)
	p := *posting
	st.postings = append(st.postings, &p)
	return nil
}

func (m *MockPostingRepository) ListByLedger(ctx context.Context, ledgerID string, limit, offset int) ([]*domain.LedgerPosting, error) {
	var postings []*domain.LedgerPosting
	for _, p := range m.store.snapshot().postings {
		if p.LedgerID == ledgerID {
			c := *p
			postings = append(postings, &c)
		}
	}
	return paginate(postings, limit, offset), nil
}

func (m *MockPostingRepository) NetChanges(ctx context.Context, ledgerID string) ([]decimal.Decimal, error) {
	var changes []decimal.Decimal
	for _, p := range m.store.snapshot().postings {
		if p.LedgerID == ledgerID {
			changes = append(changes, p.NetChange)
		}
	}
	return changes, nil
}

func (m *MockPostingRepository) SumNetChange(ctx context.Context) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range m.store.snapshot().postings {
		sum = sum.Add(p.NetChange)
	}
	return sum, nil
}

// MockVoucherRepository is a mock implementation of VoucherRepository.
type MockVoucherRepository struct {
	store *Store

	CreateFunc func(ctx context.Context, tx usecase.Transaction, voucher *domain.Voucher) error
}

func NewMockVoucherRepository(store *Store) *MockVoucherRepository {
	return &MockVoucherRepository{store: store}
}

func (m *MockVoucherRepository) Create(ctx context.Context, tx usecase.Transaction, voucher *domain.Voucher) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, voucher)
	}
	st := m.store.view(tx)
	for _, v := range st.vouchers {
		if v.Type == voucher.Type && v.Number == voucher.Number {
			return fmt.Errorf("%w: voucher number %s", domain.ErrDuplicate, voucher.Number)
		}
		if voucher.ReversalOf != nil && v.ReversalOf != nil && *v.ReversalOf == *voucher.ReversalOf {
			return domain.ErrVoucherAlreadyReversed
		}
	}
	st.vouchers[voucher.ID] = cloneVoucher(voucher)
	return nil
}

func (m *MockVoucherRepository) GetByID(ctx context.Context, id string) (*domain.Voucher, error) {
	if v, ok := m.store.snapshot().vouchers[id]; ok {
		return cloneVoucher(v), nil
	}
	return nil, domain.ErrVoucherNotFound
}

func (m *MockVoucherRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Voucher, error) {
	if v, ok := m.store.view(tx).vouchers[id]; ok {
		return cloneVoucher(v), nil
	}
	return nil, domain.ErrVoucherNotFound
}

func (m *MockVoucherRepository) HasReversal(ctx context.Context, tx usecase.Transaction, id string) (bool, error) {
	for _, v := range m.store.view(tx).vouchers {
		if v.ReversalOf != nil && *v.ReversalOf == id {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockVoucherRepository) List(ctx context.Context, filter domain.VoucherFilter) ([]*domain.Voucher, error) {
	var vouchers []*domain.Voucher
	for _, v := range m.store.snapshot().vouchers {
		if filter.Type != "" && v.Type != filter.Type {
			continue
		}
		if filter.From != nil && v.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && v.Date.After(*filter.To) {
			continue
		}
		if filter.ReferenceType != "" && v.Reference.Type != filter.ReferenceType {
			continue
		}
		if filter.ReferenceID != "" && v.Reference.ID != filter.ReferenceID {
			continue
		}
		vouchers = append(vouchers, cloneVoucher(v))
	}
	sort.Slice(vouchers, func(i, j int) bool {
		if !vouchers[i].Date.Equal(vouchers[j].Date) {
			return vouchers[i].Date.After(vouchers[j].Date)
		}
		return vouchers[i].ID > vouchers[j].ID
	})
	return paginate(vouchers, filter.Limit, filter.Offset), nil
}

func (m *MockVoucherRepository) Totals(ctx context.Context) (usecase.VoucherTotals, error) {
	totals := usecase.VoucherTotals{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	for _, v := range m.store.snapshot().vouchers {
		totals.VoucherCount++
		totals.TotalDebit = totals.TotalDebit.Add(v.TotalDebit)
		totals.TotalCredit = totals.TotalCredit.Add(v.TotalCredit)
		if !domain.IsBalanced(v.TotalDebit, v.TotalCredit) {
			totals.UnbalancedVouchers++
		}
	}
	return totals, nil
}

// Corrupt overwrites a committed voucher's totals, for consistency-check tests.
func (m *MockVoucherRepository) Corrupt(id string, debit, credit decimal.Decimal) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if v, ok := m.store.committed.vouchers[id]; ok {
		v.TotalDebit, v.TotalCredit = debit, credit
	}
}

// MockSequenceRepository is a mock implementation of SequenceRepository.
type MockSequenceRepository struct {
	store *Store

	NextFunc func(ctx context.Context, tx usecase.Transaction, scope, period string) (int64, error)
}

func NewMockSequenceRepository(store *Store) *MockSequenceRepository {
	return &MockSequenceRepository{store: store}
}

func (m *MockSequenceRepository) Next(ctx context.Context, tx usecase.Transaction, scope, period string) (int64, error) {
	if m.NextFunc != nil {
		return m.NextFunc(ctx, tx, scope, period)
	}
	st := m.store.view(tx)
	key := scope + "|" + period
	st.sequences[key]++
	return st.sequences[key], nil
}

// MockBankTransferRepository is a mock implementation of BankTransferRepository.
type MockBankTransferRepository struct {
	store *Store

	CreateFunc func(ctx context.Context, tx usecase.Transaction, batch *domain.BankTransferBatch) error
	UpdateFunc func(ctx context.Context, tx usecase.Transaction, batch *domain.BankTransferBatch) error
}

func NewMockBankTransferRepository(store *Store) *MockBankTransferRepository {
	return &MockBankTransferRepository{store: store}
}

func (m *MockBankTransferRepository) Create(ctx context.Context, tx usecase.Transaction, batch *domain.BankTransferBatch) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, batch)
	}
	st := m.store.view(tx)
	if _, exists := st.batches[batch.ID]; exists {
		return fmt.Errorf("%w: batch %s", domain.ErrDuplicate, batch.ID)
	}
	st.batches[batch.ID] = cloneBatch(batch)
	return nil
}

func (m *MockBankTransferRepository) Update(ctx context.Context, tx usecase.Transaction, batch *domain.BankTransferBatch) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, batch)
	}
	st := m.store.view(tx)
	if _, exists := st.batches[batch.ID]; !exists {
		return domain.ErrBatchNotFound
	}
	st.batches[batch.ID] = cloneBatch(batch)
	return nil
}

func (m *MockBankTransferRepository) GetByID(ctx context.Context, id string) (*domain.BankTransferBatch, error) {
	if b, ok := m.store.snapshot().batches[id]; ok {
		return cloneBatch(b), nil
	}
	return nil, domain.ErrBatchNotFound
}

func (m *MockBankTransferRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.BankTransferBatch, error) {
	if b, ok := m.store.view(tx).batches[id]; ok {
		return cloneBatch(b), nil
	}
	return nil, domain.ErrBatchNotFound
}

func (m *MockBankTransferRepository) List(ctx context.Context, filter domain.BatchFilter) ([]*domain.BankTransferBatch, error) {
	var batches []*domain.BankTransferBatch
	for _, b := range m.store.snapshot().batches {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		batches = append(batches, cloneBatch(b))
	}
	sort.Slice(batches, func(i, j int) bool { return batches[i].ID > batches[j].ID })
	return paginate(batches, filter.Limit, filter.Offset), nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	store *Store

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository(store *Store) *MockOutboxRepository {
	return &MockOutboxRepository{store: store}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	st := m.store.view(tx)
	e := *event
	st.outbox = append(st.outbox, &e)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	var events []*domain.OutboxEvent
	for _, e := range m.store.snapshot().outbox {
		if !e.Published {
			events = append(events, e)
		}
	}
	return paginate(events, limit, 0), nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, e := range m.store.committed.outbox {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error) {
	var events []*domain.OutboxEvent
	for _, e := range m.store.snapshot().outbox {
		if e.AggregateType == aggregateType && e.AggregateID == aggregateID {
			events = append(events, e)
		}
	}
	return paginate(events, limit, offset), nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	kept := m.store.committed.outbox[:0]
	for _, e := range m.store.committed.outbox {
		if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
			continue
		}
		kept = append(kept, e)
	}
	m.store.committed.outbox = kept
	return nil
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	store *Store

	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error
}

func NewMockAuditRepository(store *Store) *MockAuditRepository {
	return &MockAuditRepository{store: store}
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, log)
	}
	st := m.store.view(tx)
	l := *log
	st.audit = append(st.audit, &l)
	return nil
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	var logs []*domain.AuditLog
	for _, l := range m.store.snapshot().audit {
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		if filter.ResourceID != "" && l.ResourceID != filter.ResourceID {
			continue
		}
		logs = append(logs, l)
	}
	return paginate(logs, filter.Limit, filter.Offset), nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// MockIDGenerator is a mock implementation of IDGenerator. IDs sort in generation order.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%06d", m.counter)
}

// MockRetrier re-runs the operation while it fails with a retryable domain error.
type MockRetrier struct {
	MaxRetries int

	mu       sync.Mutex
	attempts int
}

func NewMockRetrier(maxRetries int) *MockRetrier {
	return &MockRetrier{MaxRetries: maxRetries}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	var err error
	for i := 0; i <= m.MaxRetries; i++ {
		m.mu.Lock()
		m.attempts++
		m.mu.Unlock()

		if err = operation(); err == nil || !domain.IsRetryable(err) {
			return err
		}
	}
	return err
}

// Attempts is the number of operation runs so far.
func (m *MockRetrier) Attempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Stored returns the value held for key.
func (m *MockIdempotencyStore) Stored(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}
