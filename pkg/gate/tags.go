package gate

// LatestTag is always published alongside the version tag.
const LatestTag = "latest"

// DefaultShortSHALength is the number of commit hash characters in sha- tags.
const DefaultShortSHALength = 7

// PlanTags returns the image tags to publish for d: latest, the resolved
// version when non-empty, and sha-<short> when commitSHA is known.
// Nothing is planned when d does not call for a build.
func PlanTags(d Decision, commitSHA string, shortLen int) []string {
	if !d.ShouldBuild {
		return nil
	}
	if shortLen <= 0 {
		shortLen = DefaultShortSHALength
	}

	tags := []string{LatestTag}
	if d.ResolvedVersion != "" {
		tags = append(tags, d.ResolvedVersion)
	}
	if commitSHA != "" {
		if len(commitSHA) > shortLen {
			commitSHA = commitSHA[:shortLen]
		}
		tags = append(tags, "sha-"+commitSHA)
	}
	return tags
}
