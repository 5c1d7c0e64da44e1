package render

import (
	"net/url"
)

const (
	NoticeSuccess = "success"
	NoticeInfo    = "info"
	NoticeWarning = "warning"
	NoticeError   = "error"
)

// Notice is a one-shot message carried on the redirect after a write.
type Notice struct {
	Type    string
	Message string
	// Duration is the auto dismiss delay in milliseconds; 0 keeps the
	// notice until the user closes it.
	Duration int
}

// Class maps the notice type onto the alert style.
func (n Notice) Class() string {
	switch n.Type {
	case NoticeSuccess:
		return "alert-success"
	case NoticeWarning:
		return "alert-warning"
	case NoticeError:
		return "alert-danger"
	}
	return "alert-info"
}

func (n Notice) Icon() string {
	switch n.Type {
	case NoticeSuccess:
		return "fas fa-check-circle"
	case NoticeWarning:
		return "fas fa-exclamation-triangle"
	case NoticeError:
		return "fas fa-times-circle"
	}
	return "fas fa-info-circle"
}

// Encode adds the notice to q.
func (n Notice) Encode(q url.Values) {
	if n.Message == "" {
		return
	}
	q.Set("notice", n.Type)
	q.Set("msg", n.Message)
}

// notice builds a notice with the document's timing: success and info
// fade out, warnings and errors stay.
func (r *Renderer) notice(kind, msg string) Notice {
	n := Notice{Type: kind, Message: msg}
	if kind == NoticeSuccess || kind == NoticeInfo {
		n.Duration = r.desc.NotificationDuration()
	}
	return n
}

// NoticeFrom reads the notice a redirect carried, if any.
func (r *Renderer) NoticeFrom(q url.Values) *Notice {
	msg := q.Get("msg")
	if msg == "" {
		return nil
	}
	kind := q.Get("notice")
	switch kind {
	case NoticeSuccess, NoticeInfo, NoticeWarning, NoticeError:
	default:
		kind = NoticeInfo
	}
	n := r.notice(kind, msg)
	return &n
}
