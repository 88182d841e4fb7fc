package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func manifest(version string) string {
	return "[tool.poetry]\nname = \"port-integration\"\nversion = \"" + version + "\"\n"
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name         string
		current      string
		previous     string
		wantBuild    bool
		wantResolved string
	}{
		{
			name:         "version bumped",
			current:      manifest("0.1.3-beta"),
			previous:     manifest("0.1.2-beta"),
			wantBuild:    true,
			wantResolved: "0.1.3-beta",
		},
		{
			name:         "version unchanged",
			current:      manifest("0.1.4-beta"),
			previous:     manifest("0.1.4-beta"),
			wantBuild:    false,
			wantResolved: "0.1.4-beta",
		},
		{
			name:         "no previous revision",
			current:      manifest("1.2.3"),
			previous:     "",
			wantBuild:    true,
			wantResolved: "1.2.3",
		},
		{
			name:         "current has no version line",
			current:      "[tool.poetry]\nname = \"x\"\n",
			previous:     manifest("1.0.0"),
			wantBuild:    true,
			wantResolved: "",
		},
		{
			name:         "neither has a version",
			current:      "name = \"x\"\n",
			previous:     "",
			wantBuild:    false,
			wantResolved: "",
		},
		{
			name:         "whitespace inside the literal is a change",
			current:      manifest("1.0.0 "),
			previous:     manifest("1.0.0"),
			wantBuild:    true,
			wantResolved: "1.0.0 ",
		},
		{
			name:         "case change is a change",
			current:      manifest("1.0.0-RC1"),
			previous:     manifest("1.0.0-rc1"),
			wantBuild:    true,
			wantResolved: "1.0.0-RC1",
		},
		{
			name:         "formatting around the literal is not a change",
			current:      "version=\"2.0.0\"\n",
			previous:     "version   =   \"2.0.0\"\n",
			wantBuild:    false,
			wantResolved: "2.0.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.current, tt.previous)
			assert.Equal(t, tt.wantBuild, d.ShouldBuild)
			assert.Equal(t, tt.wantResolved, d.ResolvedVersion)
		})
	}
}

func TestDecide_DifferentVersionsAlwaysBuild(t *testing.T) {
	versions := []string{"", "0.0.1", "0.0.2", "1.0.0", "1.0.0-beta", "v1.0.0", "2024.10.19", "1.0.0+build.7"}
	for _, a := range versions {
		for _, b := range versions {
			d := Decide(manifest(a), manifest(b))
			if a != b && !d.ShouldBuild {
				t.Errorf("Decide(%q, %q): expected build", a, b)
			}
			if a == b && d.ShouldBuild {
				t.Errorf("Decide(%q, %q): expected no build", a, b)
			}
			if d.ResolvedVersion != a {
				t.Errorf("Decide(%q, %q): resolved %q, want %q", a, b, d.ResolvedVersion, a)
			}
		}
	}
}

func TestDecide_Idempotent(t *testing.T) {
	cur, prev := manifest("0.1.3-beta"), manifest("0.1.2-beta")
	first := Decide(cur, prev)
	second := Decide(cur, prev)
	assert.Equal(t, first, second)
}

func TestDecideSnapshot(t *testing.T) {
	x := MustExtractor("")

	t.Run("absent previous counts as empty", func(t *testing.T) {
		snap := Snapshot{
			Current:  Manifest{Content: manifest("1.2.3"), Present: true},
			Previous: Manifest{Content: manifest("1.2.3"), Present: false},
		}
		d := DecideSnapshot(snap, x)
		assert.True(t, d.ShouldBuild)
		assert.Equal(t, "1.2.3", d.ResolvedVersion)
		assert.Equal(t, "", d.PreviousVersion)
	})

	t.Run("present previous is compared", func(t *testing.T) {
		snap := Snapshot{
			Current:  Manifest{Content: manifest("1.2.3"), Present: true},
			Previous: Manifest{Content: manifest("1.2.3"), Present: true},
		}
		d := DecideSnapshot(snap, x)
		assert.False(t, d.ShouldBuild)
		assert.Equal(t, "1.2.3", d.PreviousVersion)
	})
}
