package validation

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kjstillabower/weather-tui/internal/models"
)

// ErrLatitudeOutOfRange is returned when latitude is outside [-90, 90] or not a number.
var ErrLatitudeOutOfRange = errors.New("latitude out of range")

// ErrLongitudeOutOfRange is returned when longitude is outside [-180, 180] or not a number.
var ErrLongitudeOutOfRange = errors.New("longitude out of range")

// ErrCoordinateArgs is returned when positional arguments are not exactly a latitude and a longitude.
var ErrCoordinateArgs = errors.New("expected latitude and longitude")

// ValidateCoordinate checks that both components are finite and within degree bounds.
func ValidateCoordinate(c models.Coordinate) error {
	if math.IsNaN(c.Latitude) || c.Latitude < -90 || c.Latitude > 90 {
		return ErrLatitudeOutOfRange
	}
	if math.IsNaN(c.Longitude) || c.Longitude < -180 || c.Longitude > 180 {
		return ErrLongitudeOutOfRange
	}
	return nil
}

// ParseCoordinateArgs parses optional positional "lat lon" arguments.
// No arguments yields fallback with a nil error. Any other malformed input also
// yields fallback, together with an error describing why it was ignored.
func ParseCoordinateArgs(args []string, fallback models.Coordinate) (models.Coordinate, error) {
	if len(args) == 0 {
		return fallback, nil
	}
	if len(args) != 2 {
		return fallback, fmt.Errorf("%w: got %d arguments", ErrCoordinateArgs, len(args))
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(args[0]), 64)
	if err != nil {
		return fallback, fmt.Errorf("%w: %q", ErrLatitudeOutOfRange, args[0])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(args[1]), 64)
	if err != nil {
		return fallback, fmt.Errorf("%w: %q", ErrLongitudeOutOfRange, args[1])
	}

	c := models.Coordinate{Latitude: lat, Longitude: lon}
	if err := ValidateCoordinate(c); err != nil {
		return fallback, err
	}
	return c, nil
}
