package layout

import "errors"

var (
	// ErrBadBlueprint indicates an undecodable or empty blueprint document.
	ErrBadBlueprint = errors.New("layout: invalid blueprint")
)
