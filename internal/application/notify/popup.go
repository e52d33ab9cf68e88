package notify

import (
	"time"

	"academy/internal/domain/notification"
)

// RotationInterval is how long each popup item is shown before the
// queue advances to the next unread item.
const RotationInterval = 5 * time.Second

// State is the popup's visibility state.
type State string

// Popup visibility states.
const (
	Hidden  State = "hidden"
	Visible State = "visible"
)

// PopupQueue is the timer-driven state machine behind the notification
// popup. It holds the unread subset of the combined stream and the
// index currently on screen.
//
// Transitions: Hidden to Visible when the unread count goes from zero
// to non-zero; Visible to Hidden on explicit dismiss or when the
// unread set empties; Visible to Visible (index advance, wrapping) on
// a rotation tick or when the shown item is marked read.
type PopupQueue struct {
	items []notification.Notification
	index int
	state State
}

// NewPopupQueue creates an empty, hidden queue.
func NewPopupQueue() *PopupQueue {
	return &PopupQueue{state: Hidden}
}

// State returns the current visibility state.
func (q *PopupQueue) State() State {
	return q.state
}

// Len returns the number of unread items in the queue.
func (q *PopupQueue) Len() int {
	return len(q.items)
}

// Current returns the item on screen. The boolean is false when the
// popup is hidden.
func (q *PopupQueue) Current() (notification.Notification, bool) {
	if q.state != Visible || len(q.items) == 0 {
		return notification.Notification{}, false
	}
	return q.items[q.index], true
}

// SetItems replaces the queue with the unread subset of a freshly
// combined stream.
// POST: the popup becomes visible only on a zero-to-non-zero
// transition of the unread count; a dismissed popup stays hidden
// while the unread set remains non-empty
func (q *PopupQueue) SetItems(items []notification.Notification) {
	hadUnread := len(q.items) > 0
	q.items = Unread(items)
	if len(q.items) == 0 {
		q.state = Hidden
		q.index = 0
		return
	}
	if q.index >= len(q.items) {
		q.index = 0
	}
	if !hadUnread {
		q.index = 0
		q.state = Visible
	}
}

// Tick advances to the next unread item, wrapping around. No-op while
// hidden.
func (q *PopupQueue) Tick() {
	if q.state != Visible || len(q.items) == 0 {
		return
	}
	q.index = (q.index + 1) % len(q.items)
}

// Remove takes the item with the given ID out of the unread set,
// keeping the popup on a remaining item when one exists. Called after
// the backend confirmed a mark-read.
// POST: exactly the matching item is removed; the popup hides only
// when the set empties
func (q *PopupQueue) Remove(id int64) {
	for i, n := range q.items {
		if n.ID != id {
			continue
		}
		q.items = append(q.items[:i], q.items[i+1:]...)
		if len(q.items) == 0 {
			q.state = Hidden
			q.index = 0
			return
		}
		if i < q.index {
			q.index--
		}
		q.index %= len(q.items)
		return
	}
}

// Restore puts an item back after a failed mark-read, re-showing the
// popup if the removal had hidden it.
func (q *PopupQueue) Restore(n notification.Notification) {
	q.items = append(q.items, n)
	if q.state == Hidden {
		q.index = 0
		q.state = Visible
	}
}

// Dismiss hides the popup without marking anything read.
func (q *PopupQueue) Dismiss() {
	q.state = Hidden
}
