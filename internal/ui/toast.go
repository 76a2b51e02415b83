package ui

import (
	"time"

	"github.com/google/uuid"
)

type toastKind int

const (
	toastInfo toastKind = iota
	toastSuccess
	toastError
)

// toast is a transient message shown under the content.
type toast struct {
	id      string
	text    string
	kind    toastKind
	expires time.Time
}

// maxToasts bounds how many toasts are kept at once; older ones drop first.
const maxToasts = 3

func (m *Model) pushToast(text string, kind toastKind, now time.Time) {
	m.pushToastWithID(uuid.NewString(), text, kind, now)
}

func (m *Model) pushToastWithID(id, text string, kind toastKind, now time.Time) {
	for _, t := range m.toasts {
		if t.id == id {
			return
		}
	}
	m.toasts = append(m.toasts, toast{id: id, text: text, kind: kind, expires: now.Add(ToastLifetime)})
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}
}

func (m *Model) pruneToasts(now time.Time) {
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if now.Before(t.expires) {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}
