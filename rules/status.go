package rules

// GameStatus is the lifecycle state of a game.
type GameStatus string

const (
	// GameStatusNotStarted represents a freshly reset board waiting for start
	GameStatusNotStarted GameStatus = "not-started"
	// GameStatusActive represents a game that is being stepped
	GameStatusActive GameStatus = "active"
	// GameStatusOver represents a game that ended in a collision or a full board
	GameStatusOver GameStatus = "over"
)

const (
	// EndCauseWallCollision is when the snake runs off the board
	EndCauseWallCollision = "wall-collision"
	// EndCauseSelfCollision is when the snake runs into one of its own cells
	EndCauseSelfCollision = "self-collision"
	// EndCauseBoardFull is when the snake covers every cell and no food can
	// be placed
	EndCauseBoardFull = "board-full"
)

// Mode selects the movement model of a game.
type Mode string

const (
	// ModeKeypad steps on a fixed ticker and takes four-way direction
	// requests with a reversal guard.
	ModeKeypad Mode = "keypad"
	// ModeGesture steps once per drag sample and starts with a single cell.
	ModeGesture Mode = "gesture"
)

// ParseMode returns the mode named by s, defaulting to keypad mode for an
// empty string.
func ParseMode(s string) (Mode, bool) {
	switch m := Mode(s); m {
	case "":
		return ModeKeypad, true
	case ModeKeypad, ModeGesture:
		return m, true
	}
	return "", false
}

// SeedLength is the starting length of the snake for the mode.
func (m Mode) SeedLength() int {
	if m == ModeGesture {
		return 1
	}
	return 3
}

// Ticked reports whether the mode is driven by a fixed interval timer.
func (m Mode) Ticked() bool {
	return m != ModeGesture
}
