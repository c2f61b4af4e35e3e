package usecase_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dairycoop/dairyledger/internal/domain"
	"github.com/dairycoop/dairyledger/internal/usecase"
	"github.com/dairycoop/dairyledger/internal/usecase/mocks"
)

var fixedNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type env struct {
	store       *mocks.Store
	txMgr       *mocks.MockTransactionManager
	ledgerRepo  *mocks.MockLedgerRepository
	postingRepo *mocks.MockPostingRepository
	voucherRepo *mocks.MockVoucherRepository
	seqRepo     *mocks.MockSequenceRepository
	batchRepo   *mocks.MockBankTransferRepository
	outboxRepo  *mocks.MockOutboxRepository
	auditRepo   *mocks.MockAuditRepository
	idGen       *mocks.MockIDGenerator
	retrier     *mocks.MockRetrier

	numbering *usecase.NumberingService
	posting   *usecase.PostingEngine
	vouchers  *usecase.VoucherUseCase
	ledgers   *usecase.LedgerUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()

	store := mocks.NewStore()
	e := &env{
		store:       store,
		txMgr:       mocks.NewMockTransactionManager(store),
		ledgerRepo:  mocks.NewMockLedgerRepository(store),
		postingRepo: mocks.NewMockPostingRepository(store),
		voucherRepo: mocks.NewMockVoucherRepository(store),
		seqRepo:     mocks.NewMockSequenceRepository(store),
		batchRepo:   mocks.NewMockBankTransferRepository(store),
		outboxRepo:  mocks.NewMockOutboxRepository(store),
		auditRepo:   mocks.NewMockAuditRepository(store),
		idGen:       mocks.NewMockIDGenerator(),
		retrier:     mocks.NewMockRetrier(3),
	}

	e.numbering = usecase.NewNumberingService(e.seqRepo)
	e.posting = usecase.NewPostingEngine(e.ledgerRepo, e.postingRepo, e.idGen)
	e.vouchers = usecase.NewVoucherUseCase(e.txMgr, e.voucherRepo, e.posting, e.numbering, e.outboxRepo, e.auditRepo, e.idGen).
		WithRetrier(e.retrier).
		WithClock(func() time.Time { return fixedNow })
	e.ledgers = usecase.NewLedgerUseCase(e.txMgr, e.ledgerRepo, e.postingRepo, e.voucherRepo, e.outboxRepo, e.idGen)

	return e
}

// seedLedger commits a ledger with a zero opening balance on its natural side.
func (e *env) seedLedger(t *testing.T, id, name string, class domain.Classification) *domain.Ledger {
	t.Helper()

	l, err := domain.NewLedger(id, name, class, decimal.Zero, "", fixedNow)
	require.NoError(t, err)
	e.store.Seed(l)
	return l
}
