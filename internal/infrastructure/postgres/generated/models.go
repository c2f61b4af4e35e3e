package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type AuditLog struct {
	ID           string             `json:"id"`
	UserID       string             `json:"user_id"`
	Action       string             `json:"action"`
	ResourceType string             `json:"resource_type"`
	ResourceID   string             `json:"resource_id"`
	IpAddress    string             `json:"ip_address"`
	UserAgent    string             `json:"user_agent"`
	RequestID    string             `json:"request_id"`
	BeforeState  []byte             `json:"before_state"`
	AfterState   []byte             `json:"after_state"`
	Status       string             `json:"status"`
	ErrorMessage string             `json:"error_message"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
}

type BankTransferBatch struct {
	ID                  string             `json:"id"`
	TransferNumber      string             `json:"transfer_number"`
	Basis               string             `json:"basis"`
	Status              string             `json:"status"`
	AsOnDate            pgtype.Date        `json:"as_on_date"`
	ApplyDate           pgtype.Date        `json:"apply_date"`
	Filter              []byte             `json:"filter"`
	RoundDownUnit       int64              `json:"round_down_unit"`
	TotalNetPayable     pgtype.Numeric     `json:"total_net_payable"`
	TotalTransferAmount pgtype.Numeric     `json:"total_transfer_amount"`
	TotalApproved       int32              `json:"total_approved"`
	TotalProducers      int32              `json:"total_producers"`
	Remarks             string             `json:"remarks"`
	VoucherID           pgtype.Text        `json:"voucher_id"`
	ReversalVoucherID   pgtype.Text        `json:"reversal_voucher_id"`
	CreatedBy           string             `json:"created_by"`
	CancelledBy         pgtype.Text        `json:"cancelled_by"`
	CreatedAt           pgtype.Timestamptz `json:"created_at"`
	UpdatedAt           pgtype.Timestamptz `json:"updated_at"`
	CompletedAt         pgtype.Timestamptz `json:"completed_at"`
	CancelledAt         pgtype.Timestamptz `json:"cancelled_at"`
}

type BankTransferDetail struct {
	BatchID        string             `json:"batch_id"`
	ProducerID     string             `json:"producer_id"`
	ProducerName   string             `json:"producer_name"`
	Bank           []byte             `json:"bank"`
	NetPayable     pgtype.Numeric     `json:"net_payable"`
	TransferAmount pgtype.Numeric     `json:"transfer_amount"`
	Approved       bool               `json:"approved"`
	TransferStatus string             `json:"transfer_status"`
	TransferredAt  pgtype.Timestamptz `json:"transferred_at"`
}

type Ledger struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Classification string             `json:"classification"`
	OpeningBalance pgtype.Numeric     `json:"opening_balance"`
	OpeningSide    string             `json:"opening_side"`
	CurrentBalance pgtype.Numeric     `json:"current_balance"`
	CurrentSide    string             `json:"current_side"`
	Status         string             `json:"status"`
	Version        int64              `json:"version"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}

type LedgerPosting struct {
	ID            string             `json:"id"`
	VoucherID     string             `json:"voucher_id"`
	LedgerID      string             `json:"ledger_id"`
	LineNo        int32              `json:"line_no"`
	NetChange     pgtype.Numeric     `json:"net_change"`
	BalanceBefore pgtype.Numeric     `json:"balance_before"`
	BalanceAfter  pgtype.Numeric     `json:"balance_after"`
	SideAfter     string             `json:"side_after"`
	LedgerVersion int64              `json:"ledger_version"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
}

type OutboxEvent struct {
	ID            string             `json:"id"`
	AggregateID   string             `json:"aggregate_id"`
	AggregateType string             `json:"aggregate_type"`
	EventType     string             `json:"event_type"`
	Payload       []byte             `json:"payload"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	PublishedAt   pgtype.Timestamptz `json:"published_at"`
	Published     bool               `json:"published"`
}

type Producer struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	CollectionCenterID string `json:"collection_center_id"`
	BankID             string `json:"bank_id"`
	BankName           string `json:"bank_name"`
	Branch             string `json:"branch"`
	AccountNumber      string `json:"account_number"`
	AccountHolder      string `json:"account_holder"`
	Ifsc               string `json:"ifsc"`
	Status             string `json:"status"`
}

type ProducerPayment struct {
	ID          string         `json:"id"`
	ProducerID  string         `json:"producer_id"`
	PaymentDate pgtype.Date    `json:"payment_date"`
	MilkAmount  pgtype.Numeric `json:"milk_amount"`
	Deductions  pgtype.Numeric `json:"deductions"`
	NetPayable  pgtype.Numeric `json:"net_payable"`
	PaidAmount  pgtype.Numeric `json:"paid_amount"`
	Status      string         `json:"status"`
}

type Voucher struct {
	ID            string             `json:"id"`
	Type          string             `json:"type"`
	Number        string             `json:"number"`
	Date          pgtype.Date        `json:"date"`
	Narration     string             `json:"narration"`
	ReferenceType string             `json:"reference_type"`
	ReferenceID   string             `json:"reference_id"`
	ReversalOf    pgtype.Text        `json:"reversal_of"`
	TotalDebit    pgtype.Numeric     `json:"total_debit"`
	TotalCredit   pgtype.Numeric     `json:"total_credit"`
	CreatedBy     string             `json:"created_by"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
}

type VoucherEntry struct {
	VoucherID  string         `json:"voucher_id"`
	LineNo     int32          `json:"line_no"`
	LedgerID   string         `json:"ledger_id"`
	LedgerName string         `json:"ledger_name"`
	Side       string         `json:"side"`
	Amount     pgtype.Numeric `json:"amount"`
}
