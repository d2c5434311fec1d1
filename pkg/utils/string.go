package utils

// Truncate caps s at maxLen bytes, appending an ellipsis when trimmed.
// CLI commands use it to keep rendered value previews on one line.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
