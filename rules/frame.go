package rules

// Frame is a snapshot of the board handed to renderers and listeners. It
// shares no memory with the engine.
type Frame struct {
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Turn      int64      `json:"turn"`
	Mode      Mode       `json:"mode"`
	Snake     []Point    `json:"snake"`
	Food      *Point     `json:"food,omitempty"`
	Direction Direction  `json:"direction"`
	Score     int        `json:"score"`
	HighScore int        `json:"highScore"`
	Status    GameStatus `json:"status"`
	Cause     string     `json:"cause,omitempty"`
}

// Head returns the first snake segment.
func (f *Frame) Head() Point {
	return f.Snake[0]
}

// Renderer receives a frame after start and after every step that changed
// the board.
type Renderer interface {
	Render(*Frame)
}

// RenderFunc adapts a function to the Renderer interface.
type RenderFunc func(*Frame)

// Render calls f(frame).
func (f RenderFunc) Render(frame *Frame) { f(frame) }

// Listener is notified of lifecycle transitions.
type Listener interface {
	GameStarted(*Frame)
	GameOver(*Frame)
}

type nopListener struct{}

func (nopListener) GameStarted(*Frame) {}
func (nopListener) GameOver(*Frame)    {}
