package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// RootIndicators are the files marking a fixture root.
var RootIndicators = []string{".annotate", "annotate.yaml", "collection.js"}

// FindRoot recursively looks upwards for a fixture root indicator.
// The nearest directory holding any of RootIndicators wins, so a collection
// nested inside a fixture tree resolves to itself.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		for _, name := range RootIndicators {
			if hasFile(dir, name) {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("fixture root not found from %s", abs)
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
