package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/asimihsan/release_gate/pkg/gate"
)

// Write renders s to w in the given format.
func Write(w io.Writer, f Format, s Signals) error {
	switch f {
	case FormatGitHub:
		return WriteGitHubOutput(w, s)
	case FormatJSON:
		return WriteJSON(w, s)
	case FormatTable:
		return WriteTable(w, s)
	}
	return fmt.Errorf("%w: unknown format %q", gate.ErrOutputWrite, f)
}

// WriteJSON writes s as an indented JSON document.
func WriteJSON(w io.Writer, s Signals) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("%w: %v", gate.ErrOutputWrite, err)
	}
	return nil
}

// WriteTable renders s as a human readable table.
func WriteTable(w io.Writer, s Signals) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Release gate")
	t.AppendHeader(table.Row{"Signal", "Value"})
	for _, row := range rows(s) {
		if row[0] == "should_build" {
			color := text.FgYellow
			if s.ShouldBuild {
				color = text.FgGreen
			}
			row[1] = color.Sprint(row[1])
		}
		t.AppendRow(row)
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}

func rows(s Signals) []table.Row {
	out := []table.Row{
		{"should_build", strconv.FormatBool(s.ShouldBuild)},
		{"version", display(s.Version)},
		{"previous_version", display(s.PreviousVersion)},
		{"tags", display(strings.Join(s.Tags, ", "))},
	}
	if s.PublishAllowed != nil {
		out = append(out, table.Row{"publish_allowed", strconv.FormatBool(*s.PublishAllowed)})
		if len(s.DenyReasons) > 0 {
			out = append(out, table.Row{"deny_reasons", strings.Join(s.DenyReasons, "; ")})
		}
	}
	return out
}

func display(v string) string {
	if v == "" {
		return "(none)"
	}
	return v
}
