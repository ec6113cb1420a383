package cache

// Extended attributes are not used on windows.

func setOrigin(_, _ string) {}

func getOrigin(_ string) string {
	return ""
}
