package layout

import (
	_ "embed"
)

// The embedded reference blueprint is a NEO-style board; callers may override
// it with their own nested-array JSON file.
//
//go:embed default_base_layout.json
var defaultBaseLayout []byte

// DefaultBlueprint returns the embedded reference blueprint.
func DefaultBlueprint() Blueprint {
	bp, err := ParseBlueprint(defaultBaseLayout)
	if err != nil {
		// The embedded asset is validated by tests; reaching this is a build
		// defect, not a runtime condition.
		panic(err)
	}
	return bp
}
