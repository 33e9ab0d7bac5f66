package imaging

import "errors"

var (
	// ErrInvalidRegion is returned when an analysis region is empty or
	// extends past the image bounds.
	ErrInvalidRegion = errors.New("imaging: invalid region")

	// ErrInvalidBackground is returned when the background colour of a
	// colour mask cannot be parsed as a hex colour.
	ErrInvalidBackground = errors.New("imaging: invalid background color")

	// ErrInvalidOptions is returned for inconsistent area limits.
	ErrInvalidOptions = errors.New("imaging: invalid extraction options")

	// ErrInvalidCellGeometry marks a label whose outline has fewer than three
	// boundary points. ExtractCells reports such labels as skipped.
	ErrInvalidCellGeometry = errors.New("imaging: invalid cell geometry")
)
