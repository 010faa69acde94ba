package browser

import (
	"fmt"
	"os"
	"path/filepath"
)

// ProfilePrefix starts the name of every temporary user data directory a live
// engine launches Chrome with. Orphaned browsers are found by it.
const ProfilePrefix = "fundix-e2e-profile-"

func newProfileDir() (string, error) {
	dir, err := os.MkdirTemp("", ProfilePrefix)
	if err != nil {
		return "", fmt.Errorf("failed to create user data directory: %w", err)
	}
	return dir, nil
}

// StaleProfiles lists the profile directories still present in the temp dir
func StaleProfiles() ([]string, error) {
	return filepath.Glob(filepath.Join(os.TempDir(), ProfilePrefix+"*"))
}
