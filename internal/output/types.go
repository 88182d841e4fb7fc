// Package output emits gate signals for downstream pipeline steps.
package output

import (
	"fmt"

	"github.com/asimihsan/release_gate/pkg/gate"
)

// Format represents the output format type
type Format string

const (
	FormatGitHub Format = "github"
	FormatJSON   Format = "json"
	FormatTable  Format = "table"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatGitHub, FormatJSON, FormatTable:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want github, json or table)", s)
}

// Signals are the values downstream build, tag and push steps consume.
type Signals struct {
	ShouldBuild     bool     `json:"should_build"`
	Version         string   `json:"version"`
	PreviousVersion string   `json:"previous_version"`
	Tags            []string `json:"tags"`
	// PublishAllowed is nil when the publish policy was not evaluated.
	PublishAllowed *bool    `json:"publish_allowed,omitempty"`
	DenyReasons    []string `json:"deny_reasons,omitempty"`
}

// NewSignals builds Signals from a decision, its tag plan and the optional
// policy verdict.
func NewSignals(d gate.Decision, tags []string, v *gate.Verdict) Signals {
	s := Signals{
		ShouldBuild:     d.ShouldBuild,
		Version:         d.ResolvedVersion,
		PreviousVersion: d.PreviousVersion,
		Tags:            tags,
	}
	if s.Tags == nil {
		s.Tags = []string{}
	}
	if v != nil {
		allowed := v.Allow
		s.PublishAllowed = &allowed
		s.DenyReasons = v.DenyReasons
	}
	return s
}
