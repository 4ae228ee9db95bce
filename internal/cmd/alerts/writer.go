package alerts

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/agentstation/skillmatrix/internal/cmd/output"
)

// FormatWriter prints alerts in a command's output format: JSON and YAML
// as a document, anything else as text. Text is colored on a terminal.
type FormatWriter struct {
	w      io.Writer
	format output.Format
	color  bool
}

var _ Writer = (*FormatWriter)(nil)

// NewFormatWriter returns a writer for format.
func NewFormatWriter(w io.Writer, format output.Format) *FormatWriter {
	return &FormatWriter{w: w, format: format, color: isTerminal(w)}
}

type document struct {
	Level   string   `json:"level" yaml:"level"`
	Message string   `json:"message" yaml:"message"`
	Details []string `json:"details,omitempty" yaml:"details,omitempty"`
	Error   string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// WriteAlert implements Writer.
func (fw *FormatWriter) WriteAlert(a *Alert) error {
	switch fw.format {
	case output.FormatJSON, output.FormatYAML:
		doc := document{Level: a.Level.String(), Message: a.Message, Details: a.Details}
		if a.Err != nil {
			doc.Error = a.Err.Error()
		}
		return output.NewFormatter(fw.format).Format(fw.w, doc)
	}

	line := a.String()
	if fw.color {
		line = a.Level.paint(line)
	}
	if _, err := fmt.Fprintln(fw.w, line); err != nil {
		return err
	}
	for _, d := range a.Details {
		if _, err := fmt.Fprintf(fw.w, "   %s\n", d); err != nil {
			return err
		}
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
