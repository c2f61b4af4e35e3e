package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dairycoop/dairyledger/internal/domain"
	"github.com/dairycoop/dairyledger/internal/usecase"
)

func TestLedgerUseCase_CreateLedger(t *testing.T) {
	tests := []struct {
		name      string
		input     usecase.CreateLedgerInput
		wantErr   error
		wantSide  domain.BalanceSide
		wantValue string
	}{
		{
			name:      "asset with debit opening",
			input:     usecase.CreateLedgerInput{Name: "Cash", Classification: domain.ClassAssetLike, OpeningBalance: dec("250")},
			wantSide:  domain.SideDebit,
			wantValue: "250",
		},
		{
			name:      "liability opened on the debit side",
			input:     usecase.CreateLedgerInput{Name: "Loan", Classification: domain.ClassLiabilityLike, OpeningBalance: dec("80"), OpeningSide: domain.SideDebit},
			wantSide:  domain.SideDebit,
			wantValue: "-80",
		},
		{
			name:    "empty name",
			input:   usecase.CreateLedgerInput{Name: "  ", Classification: domain.ClassParty},
			wantErr: domain.ErrInvalidLedgerName,
		},
		{
			name:    "unknown classification",
			input:   usecase.CreateLedgerInput{Name: "X", Classification: "equity"},
			wantErr: domain.ErrInvalidClassification,
		},
		{
			name:    "negative opening",
			input:   usecase.CreateLedgerInput{Name: "X", Classification: domain.ClassParty, OpeningBalance: dec("-1")},
			wantErr: domain.ErrNegativeOpeningBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)

			ledger, err := e.ledgers.CreateLedger(context.Background(), tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, e.store.OutboxEvents())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSide, ledger.CurrentSide)
			assert.True(t, ledger.CurrentBalance.Equal(dec(tt.wantValue)), "balance %s", ledger.CurrentBalance)

			stored := e.store.Ledger(ledger.ID)
			require.NotNil(t, stored)
			assert.Equal(t, ledger.Name, stored.Name)

			events := e.store.OutboxEvents()
			require.Len(t, events, 1)
			assert.Equal(t, domain.EventTypeLedgerCreated, events[0].EventType)
		})
	}
}

func TestLedgerUseCase_CreateLedger_DuplicateName(t *testing.T) {
	e := newEnv(t)

	_, err := e.ledgers.CreateLedger(context.Background(), usecase.CreateLedgerInput{Name: "Milk Sales", Classification: domain.ClassLiabilityLike})
	require.NoError(t, err)

	_, err = e.ledgers.CreateLedger(context.Background(), usecase.CreateLedgerInput{Name: "milk  sales", Classification: domain.ClassLiabilityLike})
	assert.ErrorIs(t, err, domain.ErrDuplicateLedgerName)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Len(t, e.store.OutboxEvents(), 1)
}

func TestLedgerUseCase_ListLedgersAndPostings(t *testing.T) {
	e := newEnv(t)
	e.seedLedger(t, "cash", "Cash", domain.ClassAssetLike)
	e.seedLedger(t, "sales", "Sales", domain.ClassLiabilityLike)

	for i := 0; i < 3; i++ {
		_, err := e.vouchers.CreateVoucher(context.Background(), journal(
			domain.DebitEntry("cash", dec("10")),
			domain.CreditEntry("sales", dec("10")),
		))
		require.NoError(t, err)
	}

	liabilities, err := e.ledgers.ListLedgers(context.Background(), domain.LedgerFilter{Classification: domain.ClassLiabilityLike})
	require.NoError(t, err)
	require.Len(t, liabilities, 1)
	assert.Equal(t, "sales", liabilities[0].ID)

	_, err = e.ledgers.ListLedgers(context.Background(), domain.LedgerFilter{Classification: "equity"})
	assert.ErrorIs(t, err, domain.ErrInvalidClassification)

	postings, err := e.ledgers.ListPostings(context.Background(), usecase.ListPostingsInput{LedgerID: "cash"})
	require.NoError(t, err)
	require.Len(t, postings, 3)
	for i, p := range postings {
		want := decimal.NewFromInt(int64(10 * (i + 1)))
		assert.True(t, p.BalanceAfter.Equal(want), "posting %d balance %s", i, p.BalanceAfter)
		assert.Equal(t, int64(i+1), p.LedgerVersion)
	}

	_, err = e.ledgers.ListPostings(context.Background(), usecase.ListPostingsInput{LedgerID: "missing"})
	assert.ErrorIs(t, err, domain.ErrLedgerNotFound)
}

func TestLedgerUseCase_ReconcileLedger(t *testing.T) {
	e := newEnv(t)
	e.seedLedger(t, "cash", "Cash", domain.ClassAssetLike)
	e.seedLedger(t, "sales", "Sales", domain.ClassLiabilityLike)

	_, err := e.vouchers.CreateVoucher(context.Background(), journal(
		domain.DebitEntry("sales", dec("40")),
		domain.CreditEntry("cash", dec("40")),
	))
	require.NoError(t, err)

	result, err := e.ledgers.ReconcileLedger(context.Background(), "sales")
	require.NoError(t, err)
	assert.True(t, result.IsReconciled)
	assert.True(t, result.ReplayedBalance.Equal(dec("-40")))
	assert.Equal(t, domain.SideDebit, result.ReplayedSide)
	assert.Equal(t, domain.SideDebit, result.RecordedSide)

	// Tamper with the stored balance behind the engine's back.
	l := e.store.Ledger("cash")
	l.CurrentBalance = dec("7")
	e.store.Seed(l)

	result, err = e.ledgers.ReconcileLedger(context.Background(), "cash")
	require.NoError(t, err)
	assert.False(t, result.IsReconciled)
	assert.True(t, result.Difference.Equal(dec("47")), "difference %s", result.Difference)

	_, err = e.ledgers.ReconcileLedger(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrLedgerNotFound)
}

func TestLedgerUseCase_CheckConsistency(t *testing.T) {
	e := newEnv(t)
	e.seedLedger(t, "cash", "Cash", domain.ClassAssetLike)
	e.seedLedger(t, "sales", "Sales", domain.ClassLiabilityLike)

	report, err := e.ledgers.CheckConsistency(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Consistent)
	assert.Zero(t, report.VoucherCount)

	v, err := e.vouchers.CreateVoucher(context.Background(), journal(
		domain.DebitEntry("cash", dec("100.005")),
		domain.CreditEntry("sales", dec("100")),
	))
	require.NoError(t, err)

	report, err = e.ledgers.CheckConsistency(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Consistent)
	assert.Equal(t, int64(1), report.VoucherCount)
	assert.True(t, report.Difference.Equal(dec("0.005")))
	assert.True(t, report.PostingNetChange.Equal(report.Difference))

	e.voucherRepo.Corrupt(v.ID, dec("100"), dec("90"))

	report, err = e.ledgers.CheckConsistency(context.Background())
	require.ErrorIs(t, err, usecase.ErrInconsistentLedger)
	require.NotNil(t, report)
	assert.False(t, report.Consistent)
	assert.Equal(t, int64(1), report.UnbalancedVouchers)
}
