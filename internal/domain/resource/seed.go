package resource

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultSeed is the fixed shop-floor resource list loaded at process start.
// Resources 3 and 5 start Busy with no orders referencing them.
func DefaultSeed() []Resource {
	return []Resource{
		{ID: "1", Name: "CNC Machine 1", Status: StatusAvailable},
		{ID: "2", Name: "Assembly Line A", Status: StatusAvailable},
		{ID: "3", Name: "Paint Booth 2", Status: StatusBusy},
		{ID: "4", Name: "Quality Control Station", Status: StatusAvailable},
		{ID: "5", Name: "Packaging Line B", Status: StatusBusy},
	}
}

type seedFile struct {
	Resources []Resource `yaml:"resources"`
}

// ParseSeed decodes a YAML seed document:
//
//	resources:
//	  - id: "1"
//	    name: CNC Machine 1
//	    status: Available
func ParseSeed(data []byte) ([]Resource, error) {
	var doc seedFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode resource seed: %w", err)
	}
	if len(doc.Resources) == 0 {
		return nil, fmt.Errorf("resource seed contains no resources")
	}

	seen := make(map[string]struct{}, len(doc.Resources))
	out := make([]Resource, 0, len(doc.Resources))
	for i, raw := range doc.Resources {
		status := raw.Status
		if status == "" {
			status = StatusAvailable
		}
		res, err := NewResource(raw.ID, raw.Name, status)
		if err != nil {
			return nil, fmt.Errorf("resource seed entry %d: %w", i, err)
		}
		if _, dup := seen[res.ID]; dup {
			return nil, fmt.Errorf("resource seed entry %d (%s): %w", i, res.ID, ErrDuplicateResourceID)
		}
		seen[res.ID] = struct{}{}
		out = append(out, res)
	}
	return out, nil
}

// LoadSeed reads the seed from path, or returns DefaultSeed when path is empty.
func LoadSeed(path string) ([]Resource, error) {
	if path == "" {
		return DefaultSeed(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read resource seed: %w", err)
	}
	return ParseSeed(data)
}
