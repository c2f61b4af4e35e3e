package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	postgresRepo "github.com/dairycoop/dairyledger/internal/adapter/repository/postgres"
	"github.com/dairycoop/dairyledger/internal/domain"
	"github.com/dairycoop/dairyledger/internal/infrastructure/postgres"
	"github.com/dairycoop/dairyledger/internal/usecase"
)

// TestDB provides a migrated database for integration tests.
type TestDB struct {
	Pool *pgxpool.Pool
	t    *testing.T
}

// NewTestDB connects to DATABASE_URL and applies migrations. The test is
// skipped when the variable is unset.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	if err := postgres.RunMigrations(dbURL, migrationsDir(t), zerolog.Nop()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, dbURL, 20, 0)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	db := &TestDB{Pool: pool, t: t}
	t.Cleanup(db.Cleanup)
	db.TruncateAll(ctx)

	return db
}

// migrationsDir walks up from the working directory to the repo's migrations folder.
func migrationsDir(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		candidate := filepath.Join(dir, "migrations")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("migrations directory not found")
		}
		dir = parent
	}
}

// Cleanup closes the database connection.
func (db *TestDB) Cleanup() {
	db.Pool.Close()
}

// TruncateAll removes all data from tables.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `
		TRUNCATE TABLE
			bank_transfer_details,
			bank_transfer_batches,
			ledger_postings,
			voucher_entries,
			vouchers,
			ledgers,
			number_sequences,
			producer_payments,
			producers,
			outbox_events,
			audit_logs
		CASCADE
	`)
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

// CreateProducer inserts an active producer with bank details.
func (db *TestDB) CreateProducer(ctx context.Context, name, centerID, bankID string) domain.Producer {
	db.t.Helper()

	p := domain.Producer{
		ID:                 GenerateID(),
		Name:               name,
		CollectionCenterID: centerID,
		Bank: domain.BankDetails{
			BankID:        bankID,
			BankName:      "Cooperative Bank",
			AccountNumber: "00" + GenerateID()[:10],
			AccountHolder: name,
			IFSC:          "COOP0000001",
		},
		Status: domain.ProducerActive,
	}

	_, err := db.Pool.Exec(ctx, `
		INSERT INTO producers (id, name, collection_center_id, bank_id, bank_name, account_number, account_holder, ifsc, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.Name, p.CollectionCenterID, p.Bank.BankID, p.Bank.BankName,
		p.Bank.AccountNumber, p.Bank.AccountHolder, p.Bank.IFSC, string(p.Status),
	)
	if err != nil {
		db.t.Fatalf("failed to create producer: %v", err)
	}
	return p
}

// CreatePayment inserts a payment period row for a producer.
func (db *TestDB) CreatePayment(ctx context.Context, producerID string, date time.Time, milk, deductions, paid decimal.Decimal, status domain.PaymentStatus) {
	db.t.Helper()

	net := milk.Sub(deductions)
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO producer_payments (id, producer_id, payment_date, milk_amount, deductions, net_payable, paid_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		GenerateID(), producerID, date, milk.String(), deductions.String(), net.String(), paid.String(), string(status),
	)
	if err != nil {
		db.t.Fatalf("failed to create payment: %v", err)
	}
}

// Services is the fully wired use case graph over a TestDB.
type Services struct {
	Ledgers   *usecase.LedgerUseCase
	Vouchers  *usecase.VoucherUseCase
	Transfers *usecase.BankTransferUseCase
	Outbox    *postgresRepo.OutboxRepository
	Audit     *postgresRepo.AuditRepository
}

// NewServices wires repositories and use cases the way cmd/server does.
func (db *TestDB) NewServices() *Services {
	pool := db.Pool
	txManager := postgresRepo.NewTxManager(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	postingRepo := postgresRepo.NewPostingRepository(pool)
	voucherRepo := postgresRepo.NewVoucherRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(postgresRepo.WithMaxRetries(10))

	numbering := usecase.NewNumberingService(postgresRepo.NewSequenceRepository())
	posting := usecase.NewPostingEngine(ledgerRepo, postingRepo, idGen)

	ledgers := usecase.NewLedgerUseCase(txManager, ledgerRepo, postingRepo, voucherRepo, outboxRepo, idGen)
	vouchers := usecase.NewVoucherUseCase(txManager, voucherRepo, posting, numbering, outboxRepo, auditRepo, idGen).
		WithRetrier(retrier)
	transfers := usecase.NewBankTransferUseCase(
		txManager, postgresRepo.NewBankTransferRepository(pool), vouchers, ledgers, numbering,
		postgresRepo.NewProducerDirectory(pool), postgresRepo.NewPaymentAggregateProvider(pool),
		outboxRepo, auditRepo, idGen, "DC",
	).WithRetrier(retrier)

	return &Services{
		Ledgers:   ledgers,
		Vouchers:  vouchers,
		Transfers: transfers,
		Outbox:    outboxRepo,
		Audit:     auditRepo,
	}
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// GenerateID generates a new ULID.
func GenerateID() string {
	return ulid.Make().String()
}
