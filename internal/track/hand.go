package track

import (
	"errors"
	"fmt"
)

// Hand identifies one of the two tracked hand slots. The domain has exactly
// two hands, so slots are a fixed two-element array rather than a label map.
type Hand int

const (
	Left Hand = iota
	Right
	numHands
)

// ErrUnknownHand is returned when an observation carries a handedness label
// other than "Left" or "Right".
var ErrUnknownHand = errors.New("unknown handedness label")

// ErrDuplicateHand is returned when one cycle carries two observations with
// the same handedness label; feeding both through one slot would advance its
// hold timers twice per cycle.
var ErrDuplicateHand = errors.New("duplicate handedness label in cycle")

// ParseHand maps a handedness label to its slot.
func ParseHand(label string) (Hand, error) {
	switch label {
	case "Left":
		return Left, nil
	case "Right":
		return Right, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownHand, label)
	}
}

func (h Hand) String() string {
	switch h {
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
		return "unknown"
	}
}

// MarshalText renders the hand as its handedness label in JSON output.
func (h Hand) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText parses a handedness label.
func (h *Hand) UnmarshalText(text []byte) error {
	parsed, err := ParseHand(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
