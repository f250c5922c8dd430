package doccheck

import "regexp"

var lastUpdatedRe = regexp.MustCompile(`(?i)\*\*Last Updated\*\*:`)

// CheckFreshness requires the "**Last Updated**:" marker anywhere in content.
func CheckFreshness(content string) []string {
	if lastUpdatedRe.MatchString(content) {
		return nil
	}
	return []string{"Missing 'Last Updated' timestamp"}
}
