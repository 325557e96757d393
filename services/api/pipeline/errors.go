package pipeline

import "errors"

var (
	// ErrInvalidField is returned when an aggregation references a field
	// name the record schema does not define, or a field absent from the
	// table being transformed.
	ErrInvalidField = errors.New("referenced field does not exist")

	// ErrEmptyInput is returned when there are no rows to aggregate.
	// Callers building charts treat it as non-fatal and hand the renderer
	// an empty table instead of an error.
	ErrEmptyInput = errors.New("no rows to aggregate")

	// ErrInvalidN is returned for a non-positive top-N request.
	ErrInvalidN = errors.New("top-n count must be positive")

	// ErrInvalidDomain is returned when a dense grid is requested over an
	// empty row or column domain.
	ErrInvalidDomain = errors.New("grid domain must not be empty")

	// ErrUnsortedInput is reserved for timestamp ties a caller must
	// resolve. Equal timestamps are legal and keep their input order, so
	// TimeSeriesAlign never actually returns this; the sentinel documents
	// the policy for callers that need a stricter ordering guarantee.
	ErrUnsortedInput = errors.New("timestamps contain unresolvable ties")
)
