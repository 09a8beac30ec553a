package commands

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/battlesnakeio/arcade/rules"
	"github.com/mattn/go-runewidth"
	termbox "github.com/nsf/termbox-go"
)

const (
	defaultColor = termbox.ColorDefault
	bgColor      = termbox.ColorDefault
	snakeColor   = termbox.ColorGreen
	headColor    = termbox.ColorYellow

	// every board cell is two terminal columns wide
	cellColumns = 2
	boardLeft   = 2
	boardTop    = 2
)

// gridForTerminal is the largest board that fits a w x h terminal with room
// for the border, the title and the help line.
func gridForTerminal(w, h int) (int, int) {
	return rules.GridFor((w-2*boardLeft)/cellColumns, h-boardTop-3, 1)
}

func render(frame *rules.Frame) error {
	if frame == nil {
		return errors.New("received nil frame")
	}
	err := termbox.Clear(defaultColor, defaultColor)
	if err != nil {
		return err
	}

	renderTitle(boardLeft, boardTop, frame)
	renderBoard(frame, boardTop, boardLeft)
	renderSnake(boardLeft, boardTop, frame.Snake)
	if frame.Food != nil {
		renderFood(boardLeft, boardTop, *frame.Food)
	}
	if text := overlayText(frame); text != "" {
		x := boardLeft + (frame.Width*cellColumns-runewidth.StringWidth(text))/2
		tbprint(x, boardTop+1+frame.Height/2, termbox.ColorWhite|termbox.AttrBold, bgColor, text)
	}
	tbprint(boardLeft-1, boardTop+frame.Height+2, defaultColor, defaultColor, helpText(frame.Mode))

	return termbox.Flush()
}

func overlayText(frame *rules.Frame) string {
	switch frame.Status {
	case rules.GameStatusNotStarted:
		return "press enter to start"
	case rules.GameStatusOver:
		if frame.Cause == rules.EndCauseBoardFull {
			return fmt.Sprintf("board cleared! %d points", frame.Score)
		}
		return fmt.Sprintf("game over - %s", frame.Cause)
	}
	return ""
}

func helpText(mode rules.Mode) string {
	if mode == rules.ModeGesture {
		return "drag or arrows to move, enter restarts, q quits"
	}
	return "arrows or wasd to steer, enter restarts, q quits"
}

func renderSnake(left, top int, body []rules.Point) {
	for i, b := range body {
		color := snakeColor
		if i == 0 {
			color = headColor
		}
		x, y := cellOrigin(left, top, b)
		for c := 0; c < cellColumns; c++ {
			termbox.SetCell(x+c, y, ' ', color, color)
		}
	}
}

func renderFood(left, top int, f rules.Point) {
	x, y := cellOrigin(left, top, f)
	termbox.SetCell(x, y, getFoodEmoji(f), defaultColor, bgColor)
}

func cellOrigin(left, top int, p rules.Point) (int, int) {
	return left + p.X*cellColumns, top + p.Y + 1
}

var foods = map[rules.Point]rune{}

func getFoodEmoji(p rules.Point) rune {
	r, ok := foods[p]
	if !ok {
		r = randomFoodEmoji()
		foods[p] = r
	}
	return r
}

func randomFoodEmoji() rune {
	f := []rune{
		'🍒',
		'🍍',
		'🍑',
		'🍇',
		'🍏',
		'🍌',
		'🍫',
		'🍭',
		'🍕',
		'🍩',
		'🍗',
		'🍖',
		'🍬',
		'🍤',
		'🍪',
	}

	return f[rand.Intn(len(f))]
}

func renderBoard(frame *rules.Frame, top, left int) {
	right := left + frame.Width*cellColumns
	bottom := top + frame.Height + 1
	for i := top + 1; i < bottom; i++ {
		termbox.SetCell(left-1, i, '│', defaultColor, bgColor)
		termbox.SetCell(right, i, '│', defaultColor, bgColor)
	}

	termbox.SetCell(left-1, top, '┌', defaultColor, bgColor)
	termbox.SetCell(left-1, bottom, '└', defaultColor, bgColor)
	termbox.SetCell(right, top, '┐', defaultColor, bgColor)
	termbox.SetCell(right, bottom, '┘', defaultColor, bgColor)

	fill(left, top, frame.Width*cellColumns, 1, termbox.Cell{Ch: '─'})
	fill(left, bottom, frame.Width*cellColumns, 1, termbox.Cell{Ch: '─'})
}

func renderTitle(left, top int, frame *rules.Frame) {
	tbprint(left, top-1, defaultColor, defaultColor,
		fmt.Sprintf("Snake! - Score %d - High score %d", frame.Score, frame.HighScore))
}

func fill(x, y, w, h int, cell termbox.Cell) {
	for ly := 0; ly < h; ly++ {
		for lx := 0; lx < w; lx++ {
			termbox.SetCell(x+lx, y+ly, cell.Ch, cell.Fg, cell.Bg)
		}
	}
}

func tbprint(x, y int, fg, bg termbox.Attribute, msg string) {
	for _, c := range msg {
		termbox.SetCell(x, y, c, fg, bg)
		x += runewidth.RuneWidth(c)
	}
}
