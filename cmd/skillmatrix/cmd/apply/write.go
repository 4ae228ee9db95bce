package apply

import (
	"fmt"
	"io"

	"github.com/agentstation/skillmatrix/internal/cmd/output"
)

func write(w io.Writer, format output.Format, sessionID string, r Result) error {
	if format == output.FormatJSON || format == output.FormatYAML {
		return output.NewFormatter(format).Format(w, r)
	}

	if err := output.NewFormatter(format).Format(w, output.OutcomesToTableData(r.Outcomes)); err != nil {
		return err
	}
	fmt.Fprintln(w)

	if r.Commit != nil {
		return output.WriteCommit(w, format, sessionID, r.Commit)
	}
	return output.WriteReport(w, format, r.Report)
}
