package utils

import (
	"regexp"
	"strings"
)

const (
	// MaxBranchNameByteLength is the maximum length for a branch name.
	// Git refs have a max length of 255 bytes, minus 11 for "refs/heads/".
	MaxBranchNameByteLength = 244
)

var (
	// BranchNameReplaceRegex matches characters that are not valid in branch names.
	// Valid characters: letters, numbers, -, _, .
	BranchNameReplaceRegex = regexp.MustCompile(`[^-_.a-zA-Z0-9]+`)

	// BranchNameIgnoreRegex matches trailing dots that should be removed
	BranchNameIgnoreRegex = regexp.MustCompile(`\.*$`)

	hyphenRegex = regexp.MustCompile(`-+`)
)

// SanitizeBranchName turns arbitrary text into a name branchsync accepts.
// The result may be empty when name has no usable characters.
func SanitizeBranchName(name string) string {
	name = BranchNameReplaceRegex.ReplaceAllString(strings.TrimSpace(name), "-")
	name = hyphenRegex.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	name = BranchNameIgnoreRegex.ReplaceAllString(name, "")

	if len(name) > MaxBranchNameByteLength {
		name = name[:MaxBranchNameByteLength]
		name = strings.TrimRight(name, "-.")
	}

	return name
}
