package models

// Severity classifies a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Message is a one-shot status notification attached to a navigation.
type Message struct {
	Text     string
	Severity Severity
}
