package commands

import (
	"github.com/battlesnakeio/arcade/rules"
	termbox "github.com/nsf/termbox-go"
)

// controls is what the terminal ui drives, either a local session or a
// remote one over a websocket.
type controls interface {
	Start() error
	ChangeDirection(d rules.Direction) error
	Drag(start, current rules.Vector) error
	Resize(width, height int) error
}

var keyDirections = map[termbox.Key]rules.Direction{
	termbox.KeyArrowUp:    rules.DirectionUp,
	termbox.KeyArrowDown:  rules.DirectionDown,
	termbox.KeyArrowLeft:  rules.DirectionLeft,
	termbox.KeyArrowRight: rules.DirectionRight,
}

var runeDirections = map[rune]rules.Direction{
	'w': rules.DirectionUp,
	's': rules.DirectionDown,
	'a': rules.DirectionLeft,
	'd': rules.DirectionRight,
}

// terminal input state that outlives a single event
type inputState struct {
	mode     rules.Mode
	dragging bool
	start    rules.Vector
}

func mouseVector(ev termbox.Event) rules.Vector {
	// halve x so a column and a row cover about the same distance on screen
	return rules.Vector{X: float64(ev.MouseX) / cellColumns, Y: float64(ev.MouseY)}
}

// handleEvent applies one terminal event. It reports true when the user asked
// to quit.
func (in *inputState) handleEvent(ev termbox.Event, c controls) (bool, error) {
	switch ev.Type {
	case termbox.EventKey:
		switch {
		case ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC || ev.Ch == 'q':
			return true, nil
		case ev.Key == termbox.KeyEnter || ev.Key == termbox.KeySpace:
			return false, c.Start()
		}
		d, ok := keyDirections[ev.Key]
		if !ok && ev.Ch != 0 {
			d, ok = runeDirections[ev.Ch]
		}
		if !ok {
			return false, nil
		}
		if in.mode == rules.ModeGesture {
			// a key press is a one cell drag
			delta := rules.Point{}.Add(d)
			return false, c.Drag(rules.Vector{}, rules.Vector{X: float64(delta.X), Y: float64(delta.Y)})
		}
		return false, c.ChangeDirection(d)

	case termbox.EventMouse:
		if in.mode != rules.ModeGesture {
			return false, nil
		}
		switch ev.Key {
		case termbox.MouseLeft:
			v := mouseVector(ev)
			if !in.dragging {
				in.dragging = true
				in.start = v
				return false, nil
			}
			return false, c.Drag(in.start, v)
		case termbox.MouseRelease:
			in.dragging = false
		}

	case termbox.EventResize:
		w, h := gridForTerminal(ev.Width, ev.Height)
		return false, c.Resize(w, h)

	case termbox.EventError:
		return true, ev.Err
	}
	return false, nil
}

func setupEventQueue() <-chan termbox.Event {
	eventQueue := make(chan termbox.Event)
	go func(ev chan<- termbox.Event) {
		for {
			ev <- termbox.PollEvent()
		}
	}(eventQueue)
	return eventQueue
}
