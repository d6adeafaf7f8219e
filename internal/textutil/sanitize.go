package textutil

import "regexp"

var (
	droppedChars = regexp.MustCompile(`[:?]+`)
	unsafeChars  = regexp.MustCompile(`[\\/:"*?<>|]+`)
)

// SanitizeFileName makes a string safe for use as a file or directory name
// component. Colons and question marks are dropped outright; each remaining
// run of filesystem-unsafe characters collapses into a single underscore.
func SanitizeFileName(name string) string {
	name = droppedChars.ReplaceAllString(name, "")
	return unsafeChars.ReplaceAllString(name, "_")
}
