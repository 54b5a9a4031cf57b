package types

// Classification is the advisory verdict on an inbound message counter.
type Classification int

const (
	// Unsequenced is reported by profiles that carry no counter.
	Unsequenced Classification = iota
	// InOrder means the counter was the one expected.
	InOrder
	// ReplayOrLate means the counter was lower than expected: the message is
	// repeated or arrived out of order.
	ReplayOrLate
	// Gap means the counter was higher than expected: earlier messages are
	// missing or still in flight.
	Gap
)

func (c Classification) String() string {
	switch c {
	case Unsequenced:
		return "unsequenced"
	case InOrder:
		return "in_order"
	case ReplayOrLate:
		return "replay_or_late"
	case Gap:
		return "gap"
	default:
		return "unknown"
	}
}

// Warning reports whether the classification deserves a warning to the user.
func (c Classification) Warning() bool { return c == ReplayOrLate || c == Gap }
