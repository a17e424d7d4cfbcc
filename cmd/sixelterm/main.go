// Command sixelterm hosts a single PTY-backed child process inside a
// tcell screen, feeding its output through vt.Terminal and drawing the
// result — including any Sixel images the child emits — every frame.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/nyxterm/sixelterm/vt"
)

func main() {
	logPath := flag.String("log", "", "write diagnostic logs to this file instead of discarding them")
	flag.Parse()

	var logger *log.Logger
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sixelterm: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = log.New(f, "", log.LstdFlags|log.Lshortfile)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "sixelterm: stdout is not a terminal")
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "sixelterm: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "sixelterm: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()
	screen.SetStyle(tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack))
	screen.Clear()
	screen.EnableMouse()

	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	args := flag.Args()
	var cmd *exec.Cmd
	if len(args) > 0 {
		cmd = exec.Command(args[0], args[1:]...)
	} else {
		cmd = exec.Command(shell)
	}

	cols, rows := screen.Size()
	opts := []vt.Option{vt.WithTERM("xterm-256color")}
	if logger != nil {
		opts = append(opts, vt.WithLogger(logger))
	}
	vterm := vt.New(cols, rows, opts...)
	vterm.SetSurface(screen)

	redraw := make(chan struct{}, 1)
	vterm.Attach(func(ev vt.Event) {
		switch ev.(type) {
		case *vt.EventClosed:
			close(redraw)
		default:
			select {
			case redraw <- struct{}{}:
			default:
			}
		}
	})

	if err := vterm.Start(cmd); err != nil {
		fmt.Fprintf(os.Stderr, "sixelterm: %v\n", err)
		os.Exit(1)
	}
	defer vterm.Close()

	quit := make(chan struct{})
	var lastButtons tcell.ButtonMask
	go func() {
		for {
			ev := screen.PollEvent()
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyCtrlD && cmd.Process == nil {
					close(quit)
					return
				}
				vterm.WriteInput(vt.EncodeKey(ev))
			case *tcell.EventMouse:
				report, buttons := vt.EncodeMouse(ev, vt.Modes{}, lastButtons)
				lastButtons = buttons
				if report != nil {
					vterm.WriteInput(report)
				}
			case *tcell.EventResize:
				cols, rows := ev.Size()
				vterm.Resize(cols, rows)
				screen.Sync()
			}
		}
	}()

loop:
	for {
		select {
		case <-quit:
			break loop
		case _, ok := <-redraw:
			if !ok {
				break loop
			}
		case <-time.After(200 * time.Millisecond):
		}
		vterm.Draw()
		drawSixels(screen, vterm)
		screen.Show()
	}
}

// drawSixels is a placeholder compositing step: this host renders Sixel
// images as a reverse-video block of their cell footprint, since tcell
// has no pixel-graphics output of its own. A real terminal-graphics-
// capable frontend would instead write the decoded pixels out-of-band
// (e.g. as a fresh Sixel or Kitty graphics escape) past tcell's cell
// grid.
func drawSixels(screen tcell.Screen, vterm *vt.Terminal) {
	for _, s := range vterm.VisibleSixels() {
		if s.Image == nil {
			continue
		}
		cellCols := (s.Image.Width + 9) / 10
		cellRows := (s.Image.Height + 19) / 20
		style := tcell.StyleDefault.Reverse(true)
		for r := 0; r < cellRows; r++ {
			for c := 0; c < cellCols; c++ {
				screen.SetContent(s.Col+c, s.Line+r, ' ', nil, style)
			}
		}
	}
}
