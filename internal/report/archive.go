// internal/report/archive.go
package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mwiater/aquabench/internal/harness"
)

// WriteSuiteArchive writes the full suite result as indented JSON so
// summaries can be re-derived later without re-running the suite.
func WriteSuiteArchive(suite harness.TestSuiteResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open suite archive %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(suite); err != nil {
		return fmt.Errorf("write suite archive: %w", err)
	}
	return nil
}

// LoadSuiteArchive reads a suite archive written by WriteSuiteArchive.
func LoadSuiteArchive(path string) (harness.TestSuiteResult, error) {
	var suite harness.TestSuiteResult
	data, err := os.ReadFile(path)
	if err != nil {
		return suite, fmt.Errorf("read suite archive %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &suite); err != nil {
		return suite, fmt.Errorf("parse suite archive %s: %w", path, err)
	}
	return suite, nil
}
