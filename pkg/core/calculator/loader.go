package calculator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	hjson "github.com/hjson/hjson-go/v4"
)

// Specification documents are authored as Hjson so the files stay readable for
// the humans editing them (comments, unquoted keys, trailing commas). The
// loader normalizes through standard JSON before decoding into the typed
// aggregate.

// LoadSpecification parses one Hjson (or plain JSON) specification document.
func LoadSpecification(data []byte) (Specification, error) {
	var raw interface{}
	if err := hjson.Unmarshal(data, &raw); err != nil {
		return Specification{}, fmt.Errorf("specification parse failed: %w", err)
	}

	normalized, err := json.Marshal(raw)
	if err != nil {
		return Specification{}, fmt.Errorf("specification normalize failed: %w", err)
	}

	var spec Specification
	if err := json.Unmarshal(normalized, &spec); err != nil {
		return Specification{}, fmt.Errorf("specification decode failed: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return Specification{}, err
	}
	return spec, nil
}

// LoadSpecificationFile reads and parses a single document from disk.
func LoadSpecificationFile(path string) (Specification, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Specification{}, fmt.Errorf("read specification %s: %w", path, err)
	}
	return LoadSpecification(data)
}

// LoadSpecificationDir loads every .hjson document in dir, keyed by
// specification id. Files that fail to parse are skipped with a warning so one
// broken document does not take down the whole library.
func LoadSpecificationDir(dir string) (map[string]Specification, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read specification dir %s: %w", dir, err)
	}

	specs := make(map[string]Specification)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".hjson") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		spec, err := LoadSpecificationFile(path)
		if err != nil {
			fmt.Printf("[WARNING] Skipping specification %s: %v\n", path, err)
			continue
		}
		specs[spec.ID] = spec
	}
	return specs, nil
}
