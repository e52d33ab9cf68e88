// Package notify combines the backend's independent notification
// streams into the badge counts and popup queue the dashboards render.
package notify

import (
	"academy/internal/domain/child"
	"academy/internal/domain/notification"
)

// Combine concatenates the schedule-change and cancellation streams
// into one ordered sequence. The streams are independent; nothing is
// deduplicated, both are shown.
// POST: schedule items precede cancellation items
func Combine(schedule, cancellations []notification.Notification) []notification.Notification {
	combined := make([]notification.Notification, 0, len(schedule)+len(cancellations))
	combined = append(combined, schedule...)
	combined = append(combined, cancellations...)
	return combined
}

// Unread filters a stream down to its unread items, preserving order.
func Unread(items []notification.Notification) []notification.Notification {
	var unread []notification.Notification
	for _, n := range items {
		if !n.IsRead {
			unread = append(unread, n)
		}
	}
	return unread
}

// UnreadBadge returns the badge count for one child: unread schedule
// notifications for the child's group plus the server-supplied
// unread-comment counter.
//
// When the child has no resolvable group name, every unread schedule
// notification counts. That imprecision is deliberate; a child whose
// group assignment is pending still gets alerted.
// INVARIANT: the result is never negative
func UnreadBadge(c child.Child, schedule []notification.Notification) int {
	count := c.UnreadComments
	if count < 0 {
		count = 0
	}
	for _, n := range schedule {
		if n.IsRead {
			continue
		}
		if c.GroupName == "" || n.GroupName == c.GroupName {
			count++
		}
	}
	return count
}
