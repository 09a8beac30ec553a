// Package session runs games. A Session is the only goroutine that touches its
// engine: commands and ticks are serialized through one select loop, so a
// step always runs to completion before the next input is looked at.
package session

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/battlesnakeio/arcade/config"
	"github.com/battlesnakeio/arcade/rules"
	uuid "github.com/satori/go.uuid"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrNotFound is returned when a session id is unknown.
	ErrNotFound = errors.New("session: not found")
	// ErrClosed is returned when a session is no longer running.
	ErrClosed = errors.New("session: closed")
	// ErrTooMany is returned when the manager is at capacity.
	ErrTooMany = errors.New("session: too many sessions")
	// ErrExists is returned when a session id is already taken.
	ErrExists = errors.New("session: already exists")
)

const subscriberBuffer = 32

// EventType names what an Event carries.
type EventType string

const (
	// EventFrame is sent after start and every step
	EventFrame EventType = "frame"
	// EventGameStarted is sent when a game becomes active
	EventGameStarted EventType = "game-started"
	// EventGameOver is sent with the final frame of a game
	EventGameOver EventType = "game-over"
)

// Event is pushed to subscribers.
type Event struct {
	Type  EventType    `json:"type"`
	Frame *rules.Frame `json:"frame"`
}

// Options configures a Session.
type Options struct {
	// ID is generated when empty.
	ID     string
	Width  int
	Height int
	Mode   rules.Mode
	// Interval between ticks in keypad mode, config.MoveInterval when zero.
	Interval time.Duration
	Store    rules.ScoreStore
	Rand     *rand.Rand
}

type command struct {
	fn   func(*rules.Engine)
	done chan struct{}
}

// Session owns one engine and drives it from its Run loop.
type Session struct {
	ID string

	mode     rules.Mode
	interval time.Duration
	engine   *rules.Engine

	commands chan command
	closed   chan struct{}
	// set from inside the loop when a game starts
	restartTicker bool
	newTicker     func(time.Duration) ticker

	lock    sync.Mutex
	subs    map[int]chan Event
	nextSub int
	ended   bool
}

// New creates a session. The engine is built immediately, which reads the
// high score from the store. Call Run to begin processing commands.
func New(opts Options) *Session {
	s := &Session{
		ID:        opts.ID,
		mode:      opts.Mode,
		interval:  opts.Interval,
		commands:  make(chan command),
		closed:    make(chan struct{}),
		newTicker: newTimeTicker,
		subs:      map[int]chan Event{},
	}
	if s.ID == "" {
		s.ID = uuid.NewV4().String()
	}
	if s.mode == "" {
		s.mode = rules.ModeKeypad
	}
	if s.interval <= 0 {
		s.interval = config.MoveInterval
	}

	s.engine = rules.NewEngine(rules.Options{
		ID:           s.ID,
		Width:        opts.Width,
		Height:       opts.Height,
		Mode:         s.mode,
		Store:        opts.Store,
		Renderer:     rules.RenderFunc(s.render),
		Listener:     (*listener)(s),
		Rand:         opts.Rand,
		StoreTimeout: config.StoreTimeout,
		FoodAttempts: config.FoodAttempts,
	})
	return s
}

// Mode returns the movement model of the session.
func (s *Session) Mode() rules.Mode { return s.mode }

// Run processes commands and ticks until ctx is done. Subscribers are closed
// when it returns.
func (s *Session) Run(ctx context.Context) error {
	var t ticker
	stopTicker := func() {
		if t != nil {
			t.Stop()
			t = nil
		}
	}
	defer func() {
		stopTicker()
		close(s.closed)
		s.closeSubscribers()
		log.WithField("GameID", s.ID).Debug("session stopped")
	}()

	for {
		var tick <-chan time.Time
		if t != nil {
			tick = t.C()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-s.commands:
			c.fn(s.engine)
			close(c.done)
		case <-tick:
			s.engine.Step()
		}

		if s.engine.Status() != rules.GameStatusActive {
			stopTicker()
			continue
		}
		// A fresh start never inherits the previous game's ticker.
		if s.restartTicker {
			s.restartTicker = false
			stopTicker()
			if s.mode.Ticked() {
				t = s.newTicker(s.interval)
			}
		}
	}
}

// Do runs fn on the session goroutine and waits for it to finish.
func (s *Session) Do(ctx context.Context, fn func(*rules.Engine)) error {
	c := command{fn: fn, done: make(chan struct{})}
	select {
	case s.commands <- c:
	case <-s.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	// Once accepted the command always completes, Run closes done before it
	// looks at ctx again.
	<-c.done
	return nil
}

// Start begins a new game, replacing any game in progress.
func (s *Session) Start(ctx context.Context) error {
	return s.Do(ctx, func(e *rules.Engine) { e.Start() })
}

// ChangeDirection queues a direction for the next step and reports whether it
// was accepted.
func (s *Session) ChangeDirection(ctx context.Context, d rules.Direction) (bool, error) {
	var ok bool
	err := s.Do(ctx, func(e *rules.Engine) { ok = e.ChangeDirection(d) })
	return ok, err
}

// Drag steers and steps from a gesture sample.
func (s *Session) Drag(ctx context.Context, start, current rules.Vector) (bool, error) {
	var ok bool
	err := s.Do(ctx, func(e *rules.Engine) { ok = e.Drag(start, current) })
	return ok, err
}

// Step advances the game once outside of the ticker.
func (s *Session) Step(ctx context.Context) (bool, error) {
	var ok bool
	err := s.Do(ctx, func(e *rules.Engine) { ok = e.Step() })
	return ok, err
}

// Resize changes the board size, see rules.Engine.Resize.
func (s *Session) Resize(ctx context.Context, width, height int) (bool, error) {
	var ok bool
	err := s.Do(ctx, func(e *rules.Engine) { ok = e.Resize(width, height) })
	return ok, err
}

// Frame returns a snapshot of the board.
func (s *Session) Frame(ctx context.Context) (*rules.Frame, error) {
	var f *rules.Frame
	err := s.Do(ctx, func(e *rules.Engine) { f = e.Frame() })
	return f, err
}

// Subscribe returns a channel of events and a function to cancel the
// subscription. The channel is closed on cancel or when the session stops.
// Slow subscribers miss events rather than stall the game.
func (s *Session) Subscribe() (<-chan Event, func()) {
	s.lock.Lock()
	defer s.lock.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if s.ended {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.lock.Lock()
			defer s.lock.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

func (s *Session) publish(ev Event) {
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			log.WithFields(log.Fields{
				"GameID": s.ID,
				"Event":  ev.Type,
			}).Warn("dropping event for slow subscriber")
		}
	}
}

func (s *Session) closeSubscribers() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.ended = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

func (s *Session) render(f *rules.Frame) {
	framesTotal.WithLabelValues(string(s.mode)).Inc()
	s.publish(Event{Type: EventFrame, Frame: f})
}

// listener receives engine lifecycle callbacks on the session goroutine.
type listener Session

func (l *listener) GameStarted(f *rules.Frame) {
	s := (*Session)(l)
	s.restartTicker = true
	gamesStarted.WithLabelValues(string(s.mode)).Inc()
	s.publish(Event{Type: EventGameStarted, Frame: f})
}

func (l *listener) GameOver(f *rules.Frame) {
	s := (*Session)(l)
	gamesOver.WithLabelValues(f.Cause).Inc()
	finalScores.Observe(float64(f.Score))
	s.publish(Event{Type: EventGameOver, Frame: f})
}
