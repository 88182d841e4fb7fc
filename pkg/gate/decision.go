package gate

// Decision is the outcome of comparing the current and previous manifests.
type Decision struct {
	ShouldBuild     bool
	ResolvedVersion string
	// PreviousVersion is kept for audit only; it plays no part downstream.
	PreviousVersion string
}

// Decide extracts the version from both manifest texts and reports whether
// they differ. Comparison is raw string inequality: no normalisation is
// applied, so "1.0.0" and "1.0.0 " are different versions.
//
// previous may be empty when no parent revision exists; any non-empty
// current version then triggers a build.
func Decide(current, previous string) Decision {
	cur := ExtractVersion(current)
	prev := ExtractVersion(previous)
	return Decision{
		ShouldBuild:     cur != prev,
		ResolvedVersion: cur,
		PreviousVersion: prev,
	}
}

// DecideSnapshot runs Decide over a collected snapshot, using the given
// extractor. A previous manifest that is not present counts as empty.
func DecideSnapshot(s Snapshot, x Extractor) Decision {
	cur := x.Extract(s.Current.Content)
	prev := ""
	if s.Previous.Present {
		prev = x.Extract(s.Previous.Content)
	}
	return Decision{
		ShouldBuild:     cur != prev,
		ResolvedVersion: cur,
		PreviousVersion: prev,
	}
}

// Verdict is the outcome of a publish policy evaluation.
type Verdict struct {
	Allow       bool
	DenyReasons []string
}
