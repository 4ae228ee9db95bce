// Package alerts prints the status line commands end with: whether a
// record set may be committed, what a commit did, or why it was refused.
package alerts

import "strings"

// Alert is one status line followed by optional detail lines.
type Alert struct {
	Level   Level
	Message string
	Details []string
	Err     error
}

// Writer prints alerts.
type Writer interface {
	WriteAlert(alert *Alert) error
}

// NewError returns an error alert.
func NewError(message string) *Alert { return &Alert{Level: LevelError, Message: message} }

// NewWarning returns a warning alert.
func NewWarning(message string) *Alert { return &Alert{Level: LevelWarning, Message: message} }

// NewInfo returns an info alert.
func NewInfo(message string) *Alert { return &Alert{Level: LevelInfo, Message: message} }

// NewSuccess returns a success alert.
func NewSuccess(message string) *Alert { return &Alert{Level: LevelSuccess, Message: message} }

// WithError attaches the error that caused the alert.
func (a *Alert) WithError(err error) *Alert {
	a.Err = err
	return a
}

// WithDetails appends detail lines.
func (a *Alert) WithDetails(details ...string) *Alert {
	a.Details = append(a.Details, details...)
	return a
}

// String renders the status line: icon, message and cause.
func (a *Alert) String() string {
	var b strings.Builder
	b.WriteString(a.Level.Icon())
	b.WriteByte(' ')
	b.WriteString(a.Message)
	if a.Err != nil {
		b.WriteString(": ")
		b.WriteString(a.Err.Error())
	}
	return b.String()
}
