package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/playmatatu/poolroom/internal/config"
	"github.com/playmatatu/poolroom/internal/game"
	"github.com/playmatatu/poolroom/internal/scene"
)

const sessionID = "viewer"

var sampleRate = beep.SampleRate(44100)

type Viewer struct {
	screen tcell.Screen
	driver *scene.Driver
	frames chan *scene.Snapshot

	width, height int
	audioInit     bool
}

func NewViewer(driver *scene.Driver) (*Viewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	v := &Viewer{
		screen: screen,
		driver: driver,
		frames: make(chan *scene.Snapshot, 1),
	}
	v.width, v.height = screen.Size()

	if err := v.initAudio(); err != nil {
		// Non-fatal, the viewer runs silent
		log.Printf("Audio initialization failed: %v", err)
	}

	driver.AddListener(v.onFrame)
	return v, nil
}

func (v *Viewer) initAudio() error {
	err := speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	if err == nil {
		v.audioInit = true
	}
	return err
}

// onFrame runs on the driver goroutine. Only the newest frame is kept.
func (v *Viewer) onFrame(snap *scene.Snapshot) {
	for _, ev := range snap.Events {
		v.playCollision(ev)
	}
	select {
	case v.frames <- snap:
	default:
		select {
		case <-v.frames:
		default:
		}
		select {
		case v.frames <- snap:
		default:
		}
	}
}

func (v *Viewer) playCollision(ev game.CollisionEvent) {
	if !v.audioInit {
		return
	}

	freq := 880.0
	if ev.Type == game.EventCushion {
		freq = 330
	}
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(40*time.Millisecond), sine))
}

func (v *Viewer) submit(cmd scene.Command) {
	cmd.SessionID = sessionID
	if err := v.driver.Submit(cmd); err != nil {
		log.Printf("[VIEWER] %s rejected: %v", cmd.Type, err)
	}
}

func (v *Viewer) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			v.submit(scene.Command{Type: scene.CmdAim, Delta: scene.AimStep})
		case tcell.KeyRight:
			v.submit(scene.Command{Type: scene.CmdAim, Delta: -scene.AimStep})
		case tcell.KeyRune:
			switch r := ev.Rune(); r {
			case 'j':
				v.submit(scene.Command{Type: scene.CmdAim, Delta: scene.AimStep})
			case 'l':
				v.submit(scene.Command{Type: scene.CmdAim, Delta: -scene.AimStep})
			case ' ':
				v.submit(scene.Command{Type: scene.CmdFire})
			case 'p':
				v.submit(scene.Command{Type: scene.CmdToggleMode})
			case 'x':
				v.submit(scene.Command{Type: scene.CmdRollDice})
			case 'c':
				v.submit(scene.Command{Type: scene.CmdSpotlight})
			case 'r':
				v.submit(scene.Command{Type: scene.CmdReset})
			case '0', '1', '2', '3', '4', '5':
				v.submit(scene.Command{Type: scene.CmdToggleLight, Light: int(r - '0')})
			}
		}
	case *tcell.EventResize:
		v.width, v.height = v.screen.Size()
		v.screen.Sync()
	}
	return true
}

// project maps table coordinates onto the terminal, keeping one row for the status line.
func (v *Viewer) project(t game.Table, p game.Point) (int, int) {
	w := float64(v.width - 3)
	h := float64(v.height - 4)
	x := 1 + int(math.Round((p.X+t.HalfLength)/(2*t.HalfLength)*w))
	y := 1 + int(math.Round((p.Z+t.HalfWidth)/(2*t.HalfWidth)*h))
	return x, y
}

func ballStyle(b scene.BallState) (rune, tcell.Style) {
	switch b.Kind {
	case "cue":
		return 'o', tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	case "eight":
		return '8', tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGray)
	}
	colors := []tcell.Color{tcell.ColorYellow, tcell.ColorBlue, tcell.ColorRed, tcell.ColorPurple}
	c := colors[(b.ID-1+len(colors))%len(colors)]
	return rune('0' + b.ID%10), tcell.StyleDefault.Foreground(c).Bold(true)
}

func (v *Viewer) draw(snap *scene.Snapshot) {
	v.screen.Clear()
	if v.width < 20 || v.height < 8 {
		v.drawText(0, 0, "terminal too small", tcell.StyleDefault)
		v.screen.Show()
		return
	}

	// Felt and cushions
	felt := tcell.StyleDefault.Background(tcell.ColorDarkGreen)
	cushion := tcell.StyleDefault.Foreground(tcell.ColorMaroon)
	left, top := v.project(snap.Table, game.Point{X: -snap.Table.HalfLength, Z: -snap.Table.HalfWidth})
	right, bottom := v.project(snap.Table, game.Point{X: snap.Table.HalfLength, Z: snap.Table.HalfWidth})
	for y := top - 1; y <= bottom+1; y++ {
		for x := left - 1; x <= right+1; x++ {
			if y < top || y > bottom || x < left || x > right {
				v.screen.SetContent(x, y, '█', nil, cushion)
			} else {
				v.screen.SetContent(x, y, ' ', nil, felt)
			}
		}
	}

	// Aim line from the cue ball
	if snap.Shooting {
		for _, b := range snap.Balls {
			if b.Kind != "cue" {
				continue
			}
			rad := snap.Aim * math.Pi / 180
			for step := 1; step <= 6; step++ {
				d := float64(step) * 0.3
				p := game.Point{X: b.Position.X + math.Cos(rad)*d, Z: b.Position.Z - math.Sin(rad)*d}
				x, y := v.project(snap.Table, p)
				v.screen.SetContent(x, y, '·', nil, felt.Foreground(tcell.ColorWhite))
			}
		}
	}

	for _, b := range snap.Balls {
		x, y := v.project(snap.Table, b.Position)
		ch, style := ballStyle(b)
		v.screen.SetContent(x, y, ch, nil, style.Background(tcell.ColorDarkGreen))
	}

	v.drawStatus(snap)
	v.screen.Show()
}

func (v *Viewer) drawStatus(snap *scene.Snapshot) {
	row := v.height - 2
	mode := "view"
	if snap.Shooting {
		mode = fmt.Sprintf("aim %.0f°", snap.Aim)
	}
	status := fmt.Sprintf("frame %d  %s  dice %.0f  spot %.2f", snap.Frame, mode, snap.Dice.Angle, snap.Spotlight.Intensity)
	if snap.Spotlight.Swinging {
		status += fmt.Sprintf(" swing %.1f", snap.Spotlight.SwingAngle)
	}
	if snap.ShowPicture {
		status += "  [picture]"
	}
	v.drawText(0, row, status, tcell.StyleDefault)

	x := 0
	for _, l := range snap.Lights {
		style := tcell.StyleDefault.Foreground(tcell.ColorGray)
		if l.On {
			style = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
		}
		label := fmt.Sprintf("%d:%s ", l.Index, l.Name)
		v.drawText(x, row+1, label, style)
		x += len(label)
	}
}

func (v *Viewer) drawText(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (v *Viewer) run(ctx context.Context) {
	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- v.screen.PollEvent()
		}
	}()

	v.draw(v.driver.Snapshot())
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-eventChan:
			if !v.handleInput(ev) {
				return
			}
		case snap := <-v.frames:
			v.draw(snap)
		}
	}
}

func (v *Viewer) cleanup() {
	if v.audioInit {
		speaker.Close()
	}
	v.screen.Fini()
}

func main() {
	physics, err := config.LoadPhysics(os.Getenv("PHYSICS_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load physics: %v\n", err)
		os.Exit(1)
	}

	driver := scene.NewDriver(scene.NewRoom(physics, time.Now().UnixNano()), scene.DriverConfig{
		SceneID:         "viewer",
		SimHz:           60,
		RenderHz:        30,
		MaxCatchUpSteps: 5,
	})

	viewer, err := NewViewer(driver)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer viewer.cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := driver.Run(ctx); err != nil {
			log.Printf("[VIEWER] driver stopped: %v", err)
		}
	}()

	viewer.run(ctx)
}
