package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/asimihsan/release_gate/pkg/gate"
)

const heredocDelimiter = "RELEASE_GATE_EOF"

// WriteGitHubOutput writes s in the GitHub Actions step output format:
// one key=value line per signal, multi-line values as heredocs.
func WriteGitHubOutput(w io.Writer, s Signals) error {
	pairs := []struct{ key, value string }{
		{"should_build", strconv.FormatBool(s.ShouldBuild)},
		{"version", s.Version},
		{"previous_version", s.PreviousVersion},
		{"tags", strings.Join(s.Tags, ",")},
	}
	if s.PublishAllowed != nil {
		pairs = append(pairs,
			struct{ key, value string }{"publish_allowed", strconv.FormatBool(*s.PublishAllowed)},
			struct{ key, value string }{"deny_reasons", strings.Join(s.DenyReasons, "\n")},
		)
	}

	var b strings.Builder
	for _, p := range pairs {
		if !strings.ContainsAny(p.value, "\r\n") {
			fmt.Fprintf(&b, "%s=%s\n", p.key, p.value)
			continue
		}
		delim := heredocDelimiter
		for strings.Contains(p.value, delim) {
			delim += "_"
		}
		fmt.Fprintf(&b, "%s<<%s\n%s\n%s\n", p.key, delim, p.value, delim)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("%w: %v", gate.ErrOutputWrite, err)
	}
	return nil
}

// AppendGitHubOutputFile appends s to the file named by $GITHUB_OUTPUT.
func AppendGitHubOutputFile(path string, s Signals) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %v", gate.ErrOutputWrite, path, err)
	}
	if err := WriteGitHubOutput(f, s); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %v", gate.ErrOutputWrite, path, err)
	}
	return nil
}

// AppendStepSummary appends a markdown summary of s to the file named by
// $GITHUB_STEP_SUMMARY.
func AppendStepSummary(path string, s Signals) error {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Signal", "Value"})
	for _, row := range rows(s) {
		t.AppendRow(row)
	}

	summary := "### Release gate\n\n" + t.RenderMarkdown() + "\n"

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %v", gate.ErrOutputWrite, path, err)
	}
	if _, err := io.WriteString(f, summary); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %v", gate.ErrOutputWrite, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %v", gate.ErrOutputWrite, path, err)
	}
	return nil
}
