package dartgame

import (
	"errors"
	"fmt"
)

const (
	GameType301 = "301"
	GameType501 = "501"

	StartStraightIn = "straight-in"
	StartDoubleIn   = "double-in"

	EndStraightOut = "straight-out"
	EndDoubleOut   = "double-out"
)

var (
	ErrUnsupportedGameType = errors.New("unsupported game type")
	ErrUnsupportedRule     = errors.New("unsupported start/end rule")
)

// Config fixes the rules for the lifetime of one game.
type Config struct {
	GameType  string
	StartRule string
	EndRule   string
}

func (c Config) StartingScore() int {
	if c.GameType == GameType301 {
		return 301
	}
	return 501
}

func (c Config) Validate() error {
	if c.GameType != GameType301 && c.GameType != GameType501 {
		return fmt.Errorf("%w: %q", ErrUnsupportedGameType, c.GameType)
	}
	if c.StartRule != StartStraightIn && c.StartRule != StartDoubleIn {
		return fmt.Errorf("%w: start rule %q", ErrUnsupportedRule, c.StartRule)
	}
	if c.EndRule != EndStraightOut && c.EndRule != EndDoubleOut {
		return fmt.Errorf("%w: end rule %q", ErrUnsupportedRule, c.EndRule)
	}
	return nil
}

// turnProgress walks the darts of one turn and reports the scored total
// plus whether the turn satisfied a double-in requirement. Under double-in,
// darts thrown before the qualifying double are recorded but score zero;
// the qualifying double itself counts.
func turnProgress(darts []Dart, startRule string, alreadyIn bool) (turnScore int, doubledInThisTurn bool) {
	in := alreadyIn || startRule != StartDoubleIn
	for _, d := range darts {
		if !in {
			if !d.IsDouble() {
				continue
			}
			in = true
			doubledInThisTurn = true
		}
		turnScore += d.Score()
	}
	return turnScore, doubledInThisTurn
}

type turnVerdict int

const (
	turnContinues turnVerdict = iota
	turnBust
	turnFinish
)

// evaluateDart applies the bust/finish rules after a dart, given the score
// the turn would leave the player on. Under double-out, 1 is unreachable
// (no double scores exactly 1) and reaching 0 requires the final dart to be
// a double.
func evaluateDart(endRule string, potential int, last Dart) turnVerdict {
	switch {
	case potential < 0:
		return turnBust
	case potential == 1 && endRule == EndDoubleOut:
		return turnBust
	case potential == 0:
		if endRule == EndDoubleOut && !last.IsDouble() {
			return turnBust
		}
		return turnFinish
	}
	return turnContinues
}
