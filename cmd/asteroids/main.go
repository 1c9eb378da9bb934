// Command asteroids plays the asteroids game in a terminal. With -server it
// posts the final score of each run to a matchmaking server's leaderboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ensured/cardano-degen-club-sub001/game"
)

func main() {
	serverURL := flag.String("server", "", "Matchmaking server URL for score submission (disabled if empty)")
	seed := flag.Uint64("seed", 0, "Random seed (0 picks one)")
	mute := flag.Bool("mute", false, "Disable sound")
	name := flag.String("name", "Pilot", "Name shown on the leaderboard")
	logPath := flag.String("log", "", "Log file (logging disabled if empty)")
	flag.Parse()

	logger := log.New(io.Discard, "", log.LstdFlags)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	if err := run(*serverURL, *seed, *mute, *name, logger); err != nil {
		fmt.Fprintf(os.Stderr, "asteroids: %v\n", err)
		os.Exit(1)
	}
}

func run(serverURL string, seed uint64, mute bool, name string, logger *log.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.HideCursor()

	var sound *Sound
	if !mute {
		if sound, err = NewSound(); err != nil {
			// Non-fatal, game can run without sound
			logger.Printf("Audio initialization failed: %v", err)
		}
		defer sound.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var tracker *runTracker
	if serverURL != "" {
		tracker = newRunTracker(NewScoreClient(serverURL), name, logger)
		defer tracker.Wait()
	}

	g := game.New(game.CanvasWidth, game.CanvasHeight, seed)
	latch := NewLatch()
	loop := game.NewLoop(g, nil, latch)
	loop.Renderer = NewRenderer(screen, loop.Paused, tracker.Status)
	loop.OnFrame = func(s *game.State) {
		sound.Play(s.Events)
		if s.GameOver {
			tracker.Finish(ctx, s)
		}
	}
	tracker.Start(ctx)

	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				// screen finalized
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch latch.HandleKey(ev) {
				case CmdQuit:
					loop.Stop()
					return
				case CmdPause:
					loop.TogglePause()
				case CmdRestart:
					loop.Queue(func(g *game.Game) {
						g.Reset()
						tracker.Start(ctx)
					})
					loop.Resume()
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		}
	}()

	start := time.Now()
	err = loop.Run()
	logger.Printf("session ended after %v, final score %d", time.Since(start).Round(time.Second), g.State.Score)
	return err
}
