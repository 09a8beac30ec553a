package commands

import (
	"context"
	"io/ioutil"
	"os"

	"github.com/battlesnakeio/arcade/rules"
	"github.com/battlesnakeio/arcade/session"
	termbox "github.com/nsf/termbox-go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	playMode    = string(rules.ModeKeypad)
	playWidth   int
	playHeight  int
	playLogFile string
)

func init() {
	playCmd.Flags().StringVarP(&playMode, "mode", "m", playMode, "movement model, as one of: [keypad, gesture]")
	playCmd.Flags().IntVar(&playWidth, "width", 0, "board width in cells, fits the terminal when zero")
	playCmd.Flags().IntVar(&playHeight, "height", 0, "board height in cells, fits the terminal when zero")
	playCmd.Flags().StringVar(&playLogFile, "log-file", "", "write logs to this file instead of discarding them")
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "plays a game of snake in the terminal",
	Args: func(c *cobra.Command, args []string) error {
		if _, ok := rules.ParseMode(playMode); !ok {
			return errors.Errorf("invalid mode %q", playMode)
		}
		return nil
	},
	Run: func(c *cobra.Command, args []string) {
		if err := play(); err != nil {
			log.WithError(err).Fatal("play failed")
		}
	},
}

// localControls drives a session running in this process.
type localControls struct {
	ctx  context.Context
	sess *session.Session
}

func (l localControls) Start() error { return l.sess.Start(l.ctx) }

func (l localControls) ChangeDirection(d rules.Direction) error {
	_, err := l.sess.ChangeDirection(l.ctx, d)
	return err
}

func (l localControls) Drag(start, current rules.Vector) error {
	_, err := l.sess.Drag(l.ctx, start, current)
	return err
}

func (l localControls) Resize(width, height int) error {
	_, err := l.sess.Resize(l.ctx, width, height)
	return err
}

func redirectLogs() (func(), error) {
	if playLogFile == "" {
		log.SetOutput(ioutil.Discard)
		return func() {}, nil
	}
	f, err := os.OpenFile(playLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644) // nolint: gosec
	if err != nil {
		return nil, errors.Wrap(err, "unable to open log file")
	}
	log.SetOutput(f)
	return func() { _ = f.Close() }, nil
}

func play() error {
	mode, _ := rules.ParseMode(playMode)

	store, err := openStore(storeBackend, storeArgs)
	if err != nil {
		return err
	}
	defer closeStore(store)

	closeLogs, err := redirectLogs()
	if err != nil {
		return err
	}
	defer closeLogs()

	if err = termbox.Init(); err != nil {
		return errors.Wrap(err, "unable to start terminal")
	}
	defer termbox.Close()
	termbox.SetInputMode(termbox.InputEsc | termbox.InputMouse)

	width, height := playWidth, playHeight
	if width <= 0 || height <= 0 {
		width, height = gridForTerminal(termbox.Size())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess := session.New(session.Options{
		Width:  width,
		Height: height,
		Mode:   mode,
		Store:  store,
	})
	events, unsubscribe := sess.Subscribe()
	defer unsubscribe()
	go func() {
		if err := sess.Run(ctx); err != nil && err != context.Canceled {
			log.WithError(err).Error("session stopped")
		}
	}()

	frame, err := sess.Frame(ctx)
	if err != nil {
		return err
	}
	if err = render(frame); err != nil {
		return err
	}

	c := localControls{ctx: ctx, sess: sess}
	in := &inputState{mode: mode}
	eventQueue := setupEventQueue()
	for {
		select {
		case ev := <-eventQueue:
			quit, err := in.handleEvent(ev, c)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := render(ev.Frame); err != nil {
				return err
			}
		}
	}
}
