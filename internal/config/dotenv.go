package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// loadDotEnv loads the first match of each filename found walking up from the
// working directory. Variables already present in the environment win.
func loadDotEnv(filenames []string) (int, error) {
	found := make([]string, 0, len(filenames))
	for _, name := range filenames {
		path, err := findUp(name)
		if err != nil {
			continue
		}
		found = append(found, path)
	}

	if len(found) == 0 {
		return 0, nil
	}

	return len(found), godotenv.Load(found...)
}

func findUp(filename string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, filename)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", os.ErrNotExist
}
