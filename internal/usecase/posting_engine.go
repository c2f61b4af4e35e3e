package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dairycoop/dairyledger/internal/domain"
)

// PostingEngine applies voucher entries to ledger balances.
type PostingEngine struct {
	ledgerRepo  LedgerRepository
	postingRepo PostingRepository
	idGen       IDGenerator
}

// NewPostingEngine creates a new PostingEngine.
func NewPostingEngine(ledgerRepo LedgerRepository, postingRepo PostingRepository, idGen IDGenerator) *PostingEngine {
	return &PostingEngine{
		ledgerRepo:  ledgerRepo,
		postingRepo: postingRepo,
		idGen:       idGen,
	}
}

// PostEntries applies entries to their ledgers inside tx and returns the
// entries with ledger name snapshots filled in. Every referenced ledger must
// exist; otherwise nothing is written and domain.ErrLedgerNotFound is returned.
func (e *PostingEngine) PostEntries(ctx context.Context, tx Transaction, voucherID string, entries []domain.Entry, at time.Time) ([]domain.Entry, error) {
	// 1. Collect and sort unique ledger IDs (DEADLOCK PREVENTION)
	ids := uniqueLedgerIDs(entries)
	sort.Strings(ids)

	// 2. Lock ledgers in sorted order
	ledgers, err := e.ledgerRepo.GetByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Ledger, len(ledgers))
	lockedVersion := make(map[string]int64, len(ledgers))
	for _, l := range ledgers {
		byID[l.ID] = l
		lockedVersion[l.ID] = l.Version
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrLedgerNotFound, id)
		}
	}

	// 3. Apply each entry in order and record history
	posted := make([]domain.Entry, len(entries))
	for i, entry := range entries {
		ledger := byID[entry.LedgerID]
		before := ledger.CurrentBalance
		net := entry.NetChange()
		ledger.Post(net, at)

		posting := &domain.LedgerPosting{
			ID:            e.idGen.Generate(),
			VoucherID:     voucherID,
			LedgerID:      ledger.ID,
			LineNo:        i + 1,
			NetChange:     net,
			BalanceBefore: before,
			BalanceAfter:  ledger.CurrentBalance,
			SideAfter:     ledger.CurrentSide,
			LedgerVersion: ledger.Version,
			CreatedAt:     at,
		}
		if err := e.postingRepo.Create(ctx, tx, posting); err != nil {
			return nil, err
		}

		entry.LedgerName = ledger.Name
		posted[i] = entry
	}

	// 4. Write balances, guarded by the version read under lock
	for _, id := range ids {
		if err := e.ledgerRepo.UpdateBalance(ctx, tx, byID[id], lockedVersion[id]); err != nil {
			return nil, err
		}
	}

	return posted, nil
}

func uniqueLedgerIDs(entries []domain.Entry) []string {
	seen := make(map[string]bool, len(entries))

	var ids []string
	for _, e := range entries {
		if !seen[e.LedgerID] {
			seen[e.LedgerID] = true
			ids = append(ids, e.LedgerID)
		}
	}

	return ids
}
