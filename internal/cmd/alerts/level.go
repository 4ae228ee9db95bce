package alerts

import "fmt"

// Level is the severity of an alert.
type Level int

// Levels.
const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
	LevelSuccess
)

type style struct {
	name, icon, color string
}

var styles = map[Level]style{
	LevelError:   {"error", "✗", "\033[31m"},
	LevelWarning: {"warning", "!", "\033[33m"},
	LevelInfo:    {"info", "-", "\033[36m"},
	LevelSuccess: {"success", "✓", "\033[32m"},
}

const reset = "\033[0m"

func (l Level) String() string {
	if s, ok := styles[l]; ok {
		return s.name
	}
	return fmt.Sprintf("unknown(%d)", int(l))
}

// Icon is printed before the message.
func (l Level) Icon() string {
	if s, ok := styles[l]; ok {
		return s.icon
	}
	return "?"
}

func (l Level) paint(text string) string {
	s, ok := styles[l]
	if !ok {
		return text
	}
	return s.color + text + reset
}
