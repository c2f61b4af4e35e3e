package postgres

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/dairycoop/dairyledger/internal/domain"
	"github.com/dairycoop/dairyledger/internal/infrastructure/postgres/generated"
	"github.com/dairycoop/dairyledger/internal/usecase"
)

const pgErrUniqueViolation = "23505"

// Unique constraints mapped onto domain errors.
const (
	constraintVoucherNumber    = "vouchers_type_number_key"
	constraintVoucherReversal  = "vouchers_reversal_of_key"
	constraintLedgerActiveName = "ledgers_active_name_key"
	constraintPostingVersion   = "ledger_postings_ledger_version_key"
)

// txQueries binds generated queries to the pgx transaction behind tx.
func txQueries(tx usecase.Transaction) *generated.Queries {
	return generated.New(tx.(*Tx).PgxTx())
}

// mapUniqueViolation translates known unique violations; other errors pass through.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgErrUniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case constraintVoucherReversal:
		return domain.ErrVoucherAlreadyReversed
	case constraintVoucherNumber:
		return errors.Join(domain.ErrDuplicate, err)
	case constraintLedgerActiveName:
		return domain.ErrDuplicateLedgerName
	case constraintPostingVersion:
		return domain.ErrStaleLedgerVersion
	}
	return err
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func timePtrToPgTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return timeToPgTimestamptz(*t)
}

func pgTimestamptzToPtr(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}

// timeToPgDate keeps the calendar day of t in its own location.
func timeToPgDate(t time.Time) pgtype.Date {
	if t.IsZero() {
		return pgtype.Date{}
	}
	y, m, d := t.Date()
	return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

func timePtrToPgDate(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return timeToPgDate(*t)
}

func pgDateToTime(d pgtype.Date) time.Time {
	if !d.Valid {
		return time.Time{}
	}
	return d.Time
}

func stringPtrToPgText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func pgTextToPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

// limitOffset converts pagination to query parameters; a zero limit means defaultLimit.
func limitOffset(limit, offset, defaultLimit int) (int32, int32) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return int32(limit), int32(offset)
}
