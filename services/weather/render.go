package weather

import (
	"fmt"
	"strconv"
)

const (
	notFoundHTML = `<span class="text-red-500">City not found</span>`
	errorHTML    = `<span class="text-red-500">Error</span>`
	missingValue = "–"
)

// Render formats a snapshot as the cell's markup.
func Render(s *Snapshot) string {
	humidity := missingValue
	if h, ok := s.Humidity(); ok {
		humidity = formatNumber(h)
	}
	return fmt.Sprintf("🌡️ %s°C<br>💧 %s%% RH(Relative Humidity)<br>💨 %s km/h",
		formatNumber(s.Temperature), humidity, formatNumber(s.WindSpeed))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
