package workload

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

var (
	passLabel = color.New(color.FgGreen, color.Bold).SprintFunc()
	failLabel = color.New(color.FgRed, color.Bold).SprintFunc()
	faint     = color.New(color.Faint).SprintFunc()
)

// Print writes one line per workload followed by a summary.
func (r Report) Print(w io.Writer) {
	fmt.Fprintf(w, "run %s\n", faint(r.RunID))
	for _, res := range r.Results {
		if res.Passed() {
			fmt.Fprintf(w, "  %s %-8s %-12s %s\n", passLabel("PASS"), res.Name, res.Duration.Round(time.Microsecond), res.Detail)
			continue
		}
		fmt.Fprintf(w, "  %s %-8s %-12s %v\n", failLabel("FAIL"), res.Name, res.Duration.Round(time.Microsecond), res.Err)
	}

	failed := r.Failed()
	summary := fmt.Sprintf("%d passed, %d failed", len(r.Results)-failed, failed)
	if failed > 0 {
		fmt.Fprintln(w, failLabel(summary))
		return
	}
	fmt.Fprintln(w, passLabel(summary))
}
