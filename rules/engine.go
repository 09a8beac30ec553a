package rules

import (
	"context"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"
)

// MinGridSize is the smallest board edge the engine accepts. Smaller
// requests are raised to it so the seed snake always fits.
const MinGridSize = 4

const (
	defaultStoreTimeout = 500 * time.Millisecond
	defaultFoodAttempts = 64
)

// ScoreStore persists the high score between games and processes.
type ScoreStore interface {
	Get(ctx context.Context) (int, error)
	Put(ctx context.Context, score int) error
}

// Options configures a new Engine. Zero values select defaults.
type Options struct {
	// ID only tags log lines.
	ID       string
	Width    int
	Height   int
	Mode     Mode
	Store    ScoreStore
	Renderer Renderer
	Listener Listener
	Rand     *rand.Rand
	// StoreTimeout bounds each high score read and write.
	StoreTimeout time.Duration
	// FoodAttempts is how many random cells are tried before falling back to
	// a scan of the free cells.
	FoodAttempts int
}

// Engine is the state machine of one snake game. It is not safe for
// concurrent use, callers serialize every method call.
type Engine struct {
	id     string
	mode   Mode
	width  int
	height int
	// deferred resize, zero when none
	nextWidth  int
	nextHeight int

	snake     []Point
	direction Direction
	next      Direction
	food      *Point
	score     int
	highScore int
	status    GameStatus
	cause     string
	turn      int64

	store        ScoreStore
	renderer     Renderer
	listener     Listener
	rng          *rand.Rand
	storeTimeout time.Duration
	foodAttempts int
}

// NewEngine creates an engine with a reset, not yet started board. The high
// score is read from the store once, an unreadable score counts as zero.
func NewEngine(opts Options) *Engine {
	e := &Engine{
		id:           opts.ID,
		mode:         opts.Mode,
		store:        opts.Store,
		renderer:     opts.Renderer,
		listener:     opts.Listener,
		rng:          opts.Rand,
		storeTimeout: opts.StoreTimeout,
		foodAttempts: opts.FoodAttempts,
	}
	if e.mode == "" {
		e.mode = ModeKeypad
	}
	if e.renderer == nil {
		e.renderer = RenderFunc(func(*Frame) {})
	}
	if e.listener == nil {
		e.listener = nopListener{}
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.storeTimeout <= 0 {
		e.storeTimeout = defaultStoreTimeout
	}
	if e.foodAttempts <= 0 {
		e.foodAttempts = defaultFoodAttempts
	}
	e.width, e.height = clampGrid(opts.Width, opts.Height)
	e.highScore = e.loadHighScore()
	e.Reset()
	return e
}

// GridFor derives board dimensions from a display area and a cell size.
func GridFor(viewWidth, viewHeight, cellSize int) (int, int) {
	if cellSize <= 0 {
		cellSize = 1
	}
	return clampGrid(viewWidth/cellSize, viewHeight/cellSize)
}

func clampGrid(w, h int) (int, int) {
	if w < MinGridSize {
		w = MinGridSize
	}
	if h < MinGridSize {
		h = MinGridSize
	}
	return w, h
}

// Reset seeds a new board: the snake is centred and points right, the score
// is zero and the game is not started. A deferred resize is applied first.
func (e *Engine) Reset() {
	if e.nextWidth > 0 {
		e.width, e.height = e.nextWidth, e.nextHeight
		e.nextWidth, e.nextHeight = 0, 0
	}

	startX, startY := e.width/2, e.height/2
	n := e.mode.SeedLength()
	e.snake = make([]Point, 0, n)
	for i := 0; i < n; i++ {
		e.snake = append(e.snake, Point{X: startX - i, Y: startY})
	}

	e.direction = DirectionRight
	e.next = DirectionRight
	e.food = generateFood(e.rng, e.width, e.height, e.snake, e.foodAttempts)
	e.score = 0
	e.status = GameStatusNotStarted
	e.cause = ""
	e.turn = 0
}

// Start resets the board and makes the game active.
func (e *Engine) Start() {
	e.Reset()
	e.status = GameStatusActive

	log.WithFields(log.Fields{
		"GameID": e.id,
		"Mode":   e.mode,
		"Width":  e.width,
		"Height": e.height,
	}).Info("game started")

	frame := e.Frame()
	e.listener.GameStarted(frame)
	e.renderer.Render(frame)
}

// ChangeDirection buffers d for the next step of a keypad game. Requests are
// ignored while the game is not active, in gesture mode and when d reverses
// the current direction. It reports whether d was accepted.
func (e *Engine) ChangeDirection(d Direction) bool {
	if e.status != GameStatusActive || e.mode != ModeKeypad {
		return false
	}
	if _, ok := ParseDirection(string(d)); !ok {
		return false
	}
	if d == e.direction.Opposite() {
		return false
	}
	e.next = d
	return true
}

// Drag steers from a gesture sample and steps immediately. The vector from
// start to current is snapped to its dominant axis. Unlike ChangeDirection
// there is no reversal check. Keypad games ignore drags, they move only on
// ticks. It reports whether a step was attempted.
func (e *Engine) Drag(start, current Vector) bool {
	if e.status != GameStatusActive || e.mode != ModeGesture {
		return false
	}
	d, ok := Quantize(current.Sub(start))
	if !ok {
		return false
	}
	e.next = d
	e.Step()
	return true
}

// Step advances the game by one cell. It does nothing unless the game is
// active and reports whether the snake moved. Collisions are checked before
// the body is touched, so a collision leaves the snake as it was.
func (e *Engine) Step() bool {
	if e.status != GameStatusActive {
		return false
	}

	e.direction = e.next
	head := e.snake[0].Add(e.direction)

	if !head.In(e.width, e.height) {
		e.gameOver(EndCauseWallCollision)
		return false
	}
	// The tail has not moved yet, so it still counts as occupied.
	if contains(e.snake, head) {
		e.gameOver(EndCauseSelfCollision)
		return false
	}

	e.turn++
	e.snake = append([]Point{head}, e.snake...)

	if e.food != nil && head.Equal(*e.food) {
		e.score += FoodScore
		if e.score > e.highScore {
			e.highScore = e.score
			e.saveHighScore()
		}
		log.WithFields(log.Fields{
			"GameID": e.id,
			"Turn":   e.turn,
			"Food":   head,
			"Score":  e.score,
		}).Debug("snake ate")

		e.food = generateFood(e.rng, e.width, e.height, e.snake, e.foodAttempts)
		if e.food == nil {
			e.renderer.Render(e.Frame())
			e.gameOver(EndCauseBoardFull)
			return true
		}
	} else {
		e.snake = e.snake[:len(e.snake)-1]
	}

	e.renderer.Render(e.Frame())
	return true
}

func (e *Engine) gameOver(cause string) {
	e.status = GameStatusOver
	e.cause = cause

	log.WithFields(log.Fields{
		"GameID": e.id,
		"Turn":   e.turn,
		"Score":  e.score,
		"Cause":  cause,
	}).Info("game over")

	e.listener.GameOver(e.Frame())
}

// Resize changes the board dimensions. While a game is active the new size
// takes effect only if the snake and the food still fit, otherwise it is held
// until the next reset. An idle board is reseeded at the new size straight
// away and rendered. It reports whether the size was applied immediately.
func (e *Engine) Resize(width, height int) bool {
	width, height = clampGrid(width, height)
	if width == e.width && height == e.height {
		e.nextWidth, e.nextHeight = 0, 0
		return true
	}

	switch e.status {
	case GameStatusNotStarted:
		e.nextWidth, e.nextHeight = width, height
		e.Reset()
		e.renderer.Render(e.Frame())
		return true
	case GameStatusActive:
		if e.fits(width, height) {
			e.width, e.height = width, height
			e.nextWidth, e.nextHeight = 0, 0
			e.renderer.Render(e.Frame())
			return true
		}
	}

	e.nextWidth, e.nextHeight = width, height
	return false
}

func (e *Engine) fits(width, height int) bool {
	for _, b := range e.snake {
		if !b.In(width, height) {
			return false
		}
	}
	return e.food == nil || e.food.In(width, height)
}

// Status returns the lifecycle state.
func (e *Engine) Status() GameStatus { return e.status }

// Mode returns the movement model.
func (e *Engine) Mode() Mode { return e.mode }

// HighScore returns the best score seen by this engine, including the value
// loaded from the store.
func (e *Engine) HighScore() int { return e.highScore }

// Frame returns a copy of the current state.
func (e *Engine) Frame() *Frame {
	f := &Frame{
		Width:     e.width,
		Height:    e.height,
		Turn:      e.turn,
		Mode:      e.mode,
		Snake:     append([]Point(nil), e.snake...),
		Direction: e.direction,
		Score:     e.score,
		HighScore: e.highScore,
		Status:    e.status,
		Cause:     e.cause,
	}
	if e.food != nil {
		food := *e.food
		f.Food = &food
	}
	return f
}

func (e *Engine) loadHighScore() int {
	if e.store == nil {
		return 0
	}
	ctx, cancel := context.WithTimeout(context.Background(), e.storeTimeout)
	defer cancel()

	score, err := e.store.Get(ctx)
	if err != nil {
		log.WithError(err).WithField("GameID", e.id).Warn("unable to read high score")
		return 0
	}
	if score < 0 {
		return 0
	}
	return score
}

func (e *Engine) saveHighScore() {
	if e.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), e.storeTimeout)
	defer cancel()

	if err := e.store.Put(ctx, e.highScore); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"GameID":    e.id,
			"HighScore": e.highScore,
		}).Warn("unable to save high score")
	}
}
