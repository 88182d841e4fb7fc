package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanTags(t *testing.T) {
	sha := "3f2a9c1d8e7b6a5f4e3d2c1b0a9f8e7d6c5b4a39"

	tests := []struct {
		name     string
		decision Decision
		sha      string
		shortLen int
		want     []string
	}{
		{
			name:     "build with version and sha",
			decision: Decision{ShouldBuild: true, ResolvedVersion: "0.1.3-beta"},
			sha:      sha,
			want:     []string{"latest", "0.1.3-beta", "sha-3f2a9c1"},
		},
		{
			name:     "custom short length",
			decision: Decision{ShouldBuild: true, ResolvedVersion: "1.0.0"},
			sha:      sha,
			shortLen: 12,
			want:     []string{"latest", "1.0.0", "sha-3f2a9c1d8e7b"},
		},
		{
			name:     "short sha kept whole",
			decision: Decision{ShouldBuild: true, ResolvedVersion: "1.0.0"},
			sha:      "abc",
			want:     []string{"latest", "1.0.0", "sha-abc"},
		},
		{
			name:     "empty version has no version tag",
			decision: Decision{ShouldBuild: true},
			sha:      sha,
			want:     []string{"latest", "sha-3f2a9c1"},
		},
		{
			name:     "unknown sha",
			decision: Decision{ShouldBuild: true, ResolvedVersion: "1.0.0"},
			want:     []string{"latest", "1.0.0"},
		},
		{
			name:     "no build plans nothing",
			decision: Decision{ShouldBuild: false, ResolvedVersion: "1.0.0"},
			sha:      sha,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlanTags(tt.decision, tt.sha, tt.shortLen))
		})
	}
}
