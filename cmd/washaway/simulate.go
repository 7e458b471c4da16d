package main

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/washaway/engine"
	"github.com/lixenwraith/washaway/event"
	"github.com/lixenwraith/washaway/render"
	"github.com/lixenwraith/washaway/reveal"
	"github.com/lixenwraith/washaway/status"
	"github.com/lixenwraith/washaway/vmath"
)

func newSimulateCmd(a *app) *cobra.Command {
	var pngPath string
	cmd := &cobra.Command{
		Use:   "simulate <script>",
		Short: "Replay a YAML or JSON gesture script headlessly and report each reveal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadScript(args[0])
			if err != nil {
				return err
			}
			sim := &simulator{
				cfg:    a.cfg.ToReveal(),
				tick:   a.cfg.TickInterval(),
				log:    a.log,
				wave:   a.cfg.ToWave(),
				images: render.LoadImages(a.log, a.cfg.Images.Paths, max(sc.Images, a.cfg.ImageCount())),
				final:  pngPath,
			}
			res, err := sim.run(sc)
			if err != nil {
				return err
			}
			printSimReport(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().StringVar(&pngPath, "png", "", "write the final composited frame to this PNG file")
	return cmd
}

// simRecorder is the navigator of a simulated session
type simRecorder struct {
	reveals  []reveal.Record
	advances []int
	backs    int
}

func (r *simRecorder) OnAdvance(next int)         { r.advances = append(r.advances, next) }
func (r *simRecorder) OnBack()                    { r.backs++ }
func (r *simRecorder) OnReveal(rec reveal.Record) { r.reveals = append(r.reveals, rec) }

type simResult struct {
	Reveals   []reveal.Record
	Advances  []int
	Backs     int
	Index     int
	State     reveal.State
	Finished  bool
	Coverage  float64
	Ticks     int64
	Elapsed   time.Duration
	Snapshots []string
	Metrics   []status.Metric
}

// simulator drives a session through the tick loop on a mock clock
type simulator struct {
	cfg    reveal.Config
	tick   time.Duration
	log    *slog.Logger
	wave   render.WaveFilter
	images []image.Image
	final  string // PNG of the last frame, empty to skip
}

func (sim *simulator) run(sc *script) (*simResult, error) {
	if sim.log == nil {
		sim.log = slog.New(slog.DiscardHandler)
	}
	if sim.tick <= 0 {
		sim.tick = time.Second / 60
	}

	cfg := sim.cfg
	cfg.ImageCount = sc.Images
	reg := status.NewRegistry()
	rec := &simRecorder{}
	viewport := vmath.Sz(sc.Viewport.Width, sc.Viewport.Height)

	session, err := reveal.NewSession(cfg, viewport, rec,
		reveal.WithLogger(sim.log),
		reveal.WithRegistry(reg),
		reveal.WithStartIndex(sc.Start),
	)
	if err != nil {
		return nil, err
	}

	res := &simResult{}
	var (
		snaps   []string
		snapErr error
	)
	clock := engine.NewMockTimeProvider(time.Unix(0, 0))
	queue := event.NewEventQueue()
	loop := engine.NewLoop(queue, session,
		engine.WithClock(clock),
		engine.WithInterval(sim.tick),
		engine.WithLoopLogger(sim.log),
		engine.WithLoopRegistry(reg),
		engine.WithFrame(func(now time.Duration) {
			for _, path := range snaps {
				if err := sim.snapshot(session, path, now); err != nil && snapErr == nil {
					snapErr = err
				}
				res.Snapshots = append(res.Snapshots, path)
			}
			snaps = snaps[:0]
		}),
	)

	end := sc.Duration.Std()
	next := 0
	for now := time.Duration(0); ; now += sim.tick {
		for ; next < len(sc.Steps) && sc.Steps[next].At.Std() <= now; next++ {
			st := sc.Steps[next]
			if st.Op == opSnapshot {
				snaps = append(snaps, st.Path)
				continue
			}
			queue.Push(scriptEvent(st))
		}
		loop.Step()
		if snapErr != nil {
			return nil, snapErr
		}
		if now >= end {
			break
		}
		clock.Advance(sim.tick)
	}

	if sim.final != "" {
		if err := sim.snapshot(session, sim.final, loop.Now()); err != nil {
			return nil, err
		}
		res.Snapshots = append(res.Snapshots, sim.final)
	}

	res.Reveals = rec.reveals
	res.Advances = rec.advances
	res.Backs = rec.backs
	res.Index = session.Index()
	res.State = session.State()
	res.Finished = session.Finished()
	res.Coverage = session.Coverage()
	res.Ticks = loop.Ticks()
	res.Elapsed = loop.Now()
	res.Metrics = reg.Snapshot()
	return res, nil
}

// scriptEvent converts a script step into the queued event the terminal would produce
// A resize step carries the new width and height in x and y
func scriptEvent(st step) event.GameEvent {
	pointer := func(et event.EventType) event.GameEvent {
		return event.GameEvent{Type: et, Payload: &event.PointerPayload{Pos: st.pos(), At: st.At.Std()}}
	}
	switch st.Op {
	case opTap:
		return pointer(event.EventTap)
	case opDown:
		return pointer(event.EventPointerDown)
	case opMove:
		return pointer(event.EventPointerMove)
	case opUp:
		return pointer(event.EventPointerUp)
	case opForce:
		return event.GameEvent{Type: event.EventForceReveal}
	case opBack:
		return event.GameEvent{Type: event.EventBack}
	case opCancel:
		return event.GameEvent{Type: event.EventCancel}
	default:
		return event.GameEvent{Type: event.EventResize, Payload: &event.ResizePayload{Size: vmath.Sz(st.X, st.Y)}}
	}
}

// snapshot composites the current and next image through the live mask at session size
func (sim *simulator) snapshot(s *reveal.Session, path string, now time.Duration) error {
	if len(sim.images) == 0 {
		return fmt.Errorf("snapshot %s: no images", path)
	}
	vp := s.Viewport()
	w, h := max(int(vp.Width), 1), max(int(vp.Height), 1)

	comp := render.NewCompositor(sim.wave, w, h)
	i := s.Index() % len(sim.images)
	comp.SetImages(sim.images[i], sim.images[(i+1)%len(sim.images)])
	mask := render.RasterizeMask(s.Commands(), vp, w, h)
	frame := comp.Compose(mask, comp.CollectCommands(s.Commands()), vp, now)
	if err := render.SavePNG(frame, path); err != nil {
		return fmt.Errorf("snapshot %s: %w", path, err)
	}
	sim.log.Debug("snapshot written", "path", path, "at", now, "mask", render.MaskCoverage(mask))
	return nil
}

var (
	reportTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5C8AA8"))
	reportLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("#87B5D1")).Width(14)
	reportRow   = lipgloss.NewStyle().PaddingLeft(2)
)

func printSimReport(w io.Writer, res *simResult) {
	fmt.Fprintln(w, reportTitle.Render("simulation"))
	line := func(label, format string, args ...any) {
		fmt.Fprintln(w, reportRow.Render(reportLabel.Render(label)+fmt.Sprintf(format, args...)))
	}
	line("elapsed", "%v (%d ticks)", res.Elapsed, res.Ticks)
	line("final image", "%d", res.Index)
	line("state", "%s", res.State)
	line("coverage", "%.3f", res.Coverage)
	line("finished", "%t", res.Finished)
	line("backs", "%d", res.Backs)

	fmt.Fprintln(w, reportTitle.Render(fmt.Sprintf("reveals (%d)", len(res.Reveals))))
	for _, r := range res.Reveals {
		forced := ""
		if r.Forced {
			forced = " forced"
		}
		line(fmt.Sprintf("image %d", r.Index), "coverage %.3f, %d marks, %v%s", r.Coverage, r.Marks, r.Elapsed.Round(time.Millisecond), forced)
	}
	for _, s := range res.Snapshots {
		line("snapshot", "%s", s)
	}
}
