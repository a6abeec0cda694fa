// pkg/report/values.go

package report

// ExtractValues returns the first want numeric values of a station row block
// in left-to-right order, exactly as the source table laid them out: no
// reordering, no deduplication. Decimal commas parse identically to points.
// Fewer matches than want yields an InsufficientValuesError carrying the
// found count.
func ExtractValues(block, station string, want int) ([]float64, error) {
	values := make([]float64, 0, want)
	for _, tok := range tokenize(block) {
		if tok.kind != tokenNumber {
			continue
		}
		values = append(values, tok.val)
		if len(values) == want {
			return values, nil
		}
	}
	return nil, &InsufficientValuesError{Station: station, Found: len(values), Want: want}
}
