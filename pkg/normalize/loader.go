package normalize

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadSlangMapFile reads the slang/normalisation JSON document described
// in spec.md §6: a flat {"slang": "canonical", ...} object.
func LoadSlangMapFile(path string) (SlangMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading slang map %s: %w", path, err)
	}
	var m SlangMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing slang map JSON: %w", err)
	}
	return m, nil
}
