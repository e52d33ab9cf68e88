package notification

// Kind distinguishes the two independent source streams. Both are
// shown; streams are concatenated, never deduplicated.
const (
	KindSchedule     = "schedule"
	KindCancellation = "cancellation"
)

// Type codes the backend attaches to schedule-change notifications.
const (
	TypeDateChanged = "date_changed"
	TypeTimeChanged = "time_changed"
	TypeBothChanged = "both_changed"
	TypeCancelled   = "cancelled"
)

// Notification is one schedule-change or cancellation message.
// Read state is flipped optimistically client-side and confirmed
// against the backend.
type Notification struct {
	ID        int64
	Kind      string
	TypeCode  string
	GroupName string // group of the associated training
	Message   string
	CreatedAt string
	IsRead    bool
}

// Icon returns the display glyph for the notification type.
func (n *Notification) Icon() string {
	switch n.TypeCode {
	case TypeDateChanged:
		return "📅"
	case TypeTimeChanged:
		return "🕐"
	case TypeBothChanged:
		return "📅🕐"
	}
	return "❌"
}
