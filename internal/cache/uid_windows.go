package cache

// userDir returns an empty string, the temp directory is already per user.
func userDir() string {
	return ""
}
