package path

import (
	"os"
	"path/filepath"
)

// ProjectRoot walks up from the working directory to the directory holding
// go.mod.
func ProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		panic("failed to get working directory: " + err.Error())
	}

	for {
		_, err = os.Stat(filepath.Join(dir, "go.mod"))
		if err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			panic("project root (go.mod) not found")
		}

		dir = parent
	}
}

// Migrations is the goose migration directory of the project.
func Migrations() string {
	return filepath.Join(ProjectRoot(), "migrations")
}
