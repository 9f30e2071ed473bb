package dartgame

import (
	"errors"
	"fmt"
	"strconv"
)

var ErrInvalidDart = errors.New("impossible segment/multiplier combination")

// Dart is a single throw: a board segment and a multiplier. Segment 0 is a
// miss, 25 the outer bull, 50 the inner bull.
type Dart struct {
	Segment    int
	Multiplier int
}

func (d Dart) Score() int {
	return d.Segment * d.Multiplier
}

// IsDouble reports whether the dart satisfies a double-in/double-out rule.
// The inner bull counts as double 25.
func (d Dart) IsDouble() bool {
	return d.Multiplier == 2 || d.Segment == 50
}

func (d Dart) Validate() error {
	switch {
	case d.Segment == 0:
		if d.Multiplier != 1 {
			return fmt.Errorf("%w: miss with multiplier %d", ErrInvalidDart, d.Multiplier)
		}
	case d.Segment >= 1 && d.Segment <= 20:
		if d.Multiplier < 1 || d.Multiplier > 3 {
			return fmt.Errorf("%w: segment %d with multiplier %d", ErrInvalidDart, d.Segment, d.Multiplier)
		}
	case d.Segment == 25:
		if d.Multiplier != 1 && d.Multiplier != 2 {
			return fmt.Errorf("%w: bull with multiplier %d", ErrInvalidDart, d.Multiplier)
		}
	case d.Segment == 50:
		if d.Multiplier != 1 {
			return fmt.Errorf("%w: inner bull with multiplier %d", ErrInvalidDart, d.Multiplier)
		}
	default:
		return fmt.Errorf("%w: segment %d", ErrInvalidDart, d.Segment)
	}
	return nil
}

func (d Dart) Label() string {
	switch {
	case d.Segment == 0:
		return "Miss"
	case d.Segment == 50:
		return "Bull"
	case d.Segment == 25 && d.Multiplier == 2:
		return "D25"
	case d.Segment == 25:
		return "25"
	case d.Multiplier == 3:
		return "T" + strconv.Itoa(d.Segment)
	case d.Multiplier == 2:
		return "D" + strconv.Itoa(d.Segment)
	default:
		return "S" + strconv.Itoa(d.Segment)
	}
}
