// pkg/report/errors.go

package report

import (
	"errors"
	"fmt"
)

// StationNotFoundError means no line of the report text names the station.
type StationNotFoundError struct {
	Station string
}

func (e *StationNotFoundError) Error() string {
	return fmt.Sprintf("station %q not found in report text", e.Station)
}

// InsufficientValuesError means the station row was located but carried
// fewer numeric values than the report kind requires.
type InsufficientValuesError struct {
	Station string
	Found   int
	Want    int
}

func (e *InsufficientValuesError) Error() string {
	return fmt.Sprintf("station %q row has %d numeric values, want %d", e.Station, e.Found, e.Want)
}

// Diagnostic renders the user-facing Spanish message for an extraction
// failure. Unknown errors get a generic line so a new failure mode never
// breaks command handling.
func Diagnostic(err error) string {
	var notFound *StationNotFoundError
	if errors.As(err, &notFound) {
		return fmt.Sprintf("⚠️ No hay datos para la estación \"%s\" en el informe.", notFound.Station)
	}

	var insufficient *InsufficientValuesError
	if errors.As(err, &insufficient) {
		return fmt.Sprintf("⚠️ Datos incompletos para \"%s\": se encontraron %d valores de los %d esperados.",
			insufficient.Station, insufficient.Found, insufficient.Want)
	}

	return fmt.Sprintf("⚠️ No se pudo procesar el informe: %v", err)
}
