//go:build !unix

package extent

// NewMapped falls back to the in-memory segment on platforms without
// anonymous mappings. The reserve still acts as the growth limit.
func NewMapped(reserve int) (Provider, error) {
	return NewSegment(reserve), nil
}
