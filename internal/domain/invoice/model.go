package invoice

// Invoice status as computed by the backend.
const (
	StatusPending = "pending"
	StatusOverdue = "overdue"
	StatusPaid    = "paid"
)

// Receipt review status.
const (
	ReceiptNone     = "none"
	ReceiptPending  = "pending"
	ReceiptApproved = "approved"
	ReceiptRejected = "rejected"
)

// MatchVerdict is the backend's parsed-receipt amount comparison.
type MatchVerdict string

const (
	VerdictMatch    MatchVerdict = "match"
	VerdictMismatch MatchVerdict = "mismatch"
	VerdictAbsent   MatchVerdict = "absent"
)

// Invoice is a monthly computed payment obligation per child. All
// amounts are authoritative backend values and are displayed
// verbatim; nothing here recomputes them.
type Invoice struct {
	ID                int64
	ChildID           int64
	ChildName         string
	Month             int // 1..12
	Year              int
	TotalTrainings    int
	BillableTrainings int
	ConfirmedAbsences int
	PricePerTraining  string // decimal string as sent by the backend
	TotalAmount       string
	DueDate           string // YYYY-MM-DD
	PaidAt            string // empty until paid
	Status            string
	ReceiptStatus     string
	ParsedAmount      string // from the uploaded receipt, empty if unparsed
	ParsedBank        string
	AmountMatch       *bool // nil when the backend gave no verdict
}

// NeedsReceipt returns true if the invoice can accept a payment
// receipt upload.
// INVARIANT: Invoice fields are not mutated
func (i *Invoice) NeedsReceipt() bool {
	return i.Status == StatusPending || i.Status == StatusOverdue
}

// Verdict folds the nullable amount-match flag into a three-state
// value for display.
// POST: Result is one of VerdictMatch, VerdictMismatch, VerdictAbsent
func (i *Invoice) Verdict() MatchVerdict {
	if i.AmountMatch == nil {
		return VerdictAbsent
	}
	if *i.AmountMatch {
		return VerdictMatch
	}
	return VerdictMismatch
}
