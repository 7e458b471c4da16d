package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/washaway/audio"
	"github.com/lixenwraith/washaway/config"
	"github.com/lixenwraith/washaway/engine"
	"github.com/lixenwraith/washaway/event"
	"github.com/lixenwraith/washaway/input"
	"github.com/lixenwraith/washaway/playlist"
	"github.com/lixenwraith/washaway/render"
	"github.com/lixenwraith/washaway/reveal"
	"github.com/lixenwraith/washaway/service"
	"github.com/lixenwraith/washaway/status"
	"github.com/lixenwraith/washaway/store"
)

func newPlayCmd(a *app) *cobra.Command {
	var (
		songID string
		mute   bool
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Pick a song and wash through the image sequence",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.play(cmd.Context(), songID, mute)
		},
	}
	cmd.Flags().StringVarP(&songID, "song", "s", "", "song id, skips the selection menu")
	cmd.Flags().BoolVar(&mute, "mute", false, "disable music")
	return cmd
}

// deps are the services shared by every session of one play run
type deps struct {
	registry *status.Registry
	player   *audio.Player
	store    *store.SQLite
	pending  *atomic.Pointer[config.Config]
}

func (a *app) play(ctx context.Context, songID string, mute bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := playlist.NewCatalog(a.cfg.Songs)
	if err != nil {
		return err
	}
	if songID != "" {
		if _, ok := catalog.Find(songID); !ok {
			return fmt.Errorf("unknown song %q", songID)
		}
	}

	statusSvc := status.NewService()
	player := audio.NewPlayer(a.cfg.ToAudio(),
		audio.WithLogger(a.log.With("component", "audio")),
		audio.WithRegistry(statusSvc.Registry()),
	)
	storeSvc := store.NewService(a.cfg.Store.Path, a.log.With("component", "store"))

	hub := service.NewHub(a.log)
	for _, svc := range []service.Service{statusSvc, audio.NewService(player, a.log), storeSvc} {
		if err := hub.Register(svc); err != nil {
			return err
		}
	}
	if err := hub.InitAll(ctx, mute || !a.cfg.Audio.Enabled); err != nil {
		return err
	}
	if err := hub.StartAll(); err != nil {
		return err
	}
	defer hub.StopAll()

	d := &deps{
		registry: statusSvc.Registry(),
		player:   player,
		store:    storeSvc.Store(),
		pending:  new(atomic.Pointer[config.Config]),
	}
	a.watchConfig(ctx, d)

	preselect := a.cfg.Audio.DefaultSong
	for {
		var song playlist.Song
		if songID != "" {
			song, _ = catalog.Find(songID)
			songID = ""
		} else {
			song, err = playlist.Pick(ctx, catalog, preselect)
			if errors.Is(err, playlist.ErrNoSelection) {
				return nil
			}
			if err != nil {
				return err
			}
		}
		preselect = song.ID

		toMenu, err := a.runSession(ctx, d, song)
		if err != nil || !toMenu || ctx.Err() != nil {
			return err
		}
	}
}

// watchConfig hands reloaded configs to the tick loop through d.pending
func (a *app) watchConfig(ctx context.Context, d *deps) {
	if a.configPath == "" {
		return
	}
	loader := config.NewLoader(a.configPath, a.log.With("component", "config"))
	if _, err := loader.Load(); err != nil {
		a.log.Warn("config watch disabled", "error", err)
		return
	}
	loader.Subscribe(func(cfg *config.Config) { d.pending.Store(cfg) })
	if err := loader.Watch(ctx); err != nil {
		a.log.Warn("config watch disabled", "error", err)
	}
}

// runSession plays one song over the image sequence on a fresh tcell screen
// Returns true when the user navigated back past the first image
func (a *app) runSession(ctx context.Context, d *deps, song playlist.Song) (bool, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return false, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return false, fmt.Errorf("init screen: %w", err)
	}
	engine.SetCrashHook(screen.Fini)
	defer engine.SetCrashHook(nil)
	defer screen.Fini()
	screen.EnableMouse(tcell.MouseButtonEvents | tcell.MouseDragEvents)
	screen.HideCursor()

	cfg := a.cfg
	log := a.log.With("song", song.ID)
	term := render.NewTerminal(screen, cfg.ToWave())

	start := 0
	if p, err := d.store.LoadProgress(ctx, song.ID); err == nil {
		start = p.Index
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Warn("progress unavailable", "error", err)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	nav := &navigator{
		log:     log,
		store:   d.store,
		term:    term,
		song:    song,
		session: uuid.NewString(),
		images:  render.LoadImages(log, cfg.Images.Paths, cfg.ImageCount()),
		exit:    cancel,
	}

	opts := []reveal.Option{
		reveal.WithLogger(log),
		reveal.WithRegistry(d.registry),
		reveal.WithStartIndex(start),
	}
	if cfg.Reveal.Graph != "" {
		graph, err := os.ReadFile(cfg.Reveal.Graph)
		if err != nil {
			return false, fmt.Errorf("read reveal graph: %w", err)
		}
		opts = append(opts, reveal.WithGraph(string(graph)))
	}
	session, err := reveal.NewSession(cfg.ToReveal(), term.Geometry().Viewport(), nav, opts...)
	if err != nil {
		return false, err
	}
	nav.show(session.Index())

	d.player.PlayLoop(song.ID)

	queue := event.NewEventQueue()
	loop := engine.NewLoop(queue, session,
		engine.WithInterval(cfg.TickInterval()),
		engine.WithLoopLogger(log),
		engine.WithLoopRegistry(d.registry),
		engine.WithUnhandled(func(ev event.GameEvent) {
			if ev.Type == event.EventToggleMusic {
				d.player.Toggle()
			}
		}),
		engine.WithFrame(func(now time.Duration) {
			if next := d.pending.Swap(nil); next != nil {
				rc := next.ToReveal()
				rc.ImageCount = len(nav.images)
				session.SetConfig(rc)
				log.Info("reveal tunables reloaded", "threshold", rc.Threshold)
			}
			term.Sync()
			hud := formatHUD(d.registry, song.Title, session.ImageCount())
			term.RenderFrame(session.Commands(), session.Viewport(), now, hud)
		}),
	)

	translator := input.NewMachine(term.Geometry(), loop.Now)
	engine.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			if ge, ok := translator.Process(ev); ok {
				queue.Push(ge)
			}
		}
	})

	log.Info("session started", "start", start, "images", len(nav.images))
	if err := loop.Run(loopCtx); err != nil {
		return false, err
	}

	if err := d.store.SaveProgress(context.Background(), song.ID, session.Index()); err != nil {
		log.Warn("save progress", "error", err)
	}
	if nav.toMenu {
		d.player.Stop()
	}
	return nav.toMenu, nil
}

// navigator swaps the displayed image pair and persists reveals
// Called on the tick loop goroutine only
type navigator struct {
	log     *slog.Logger
	store   *store.SQLite
	term    *render.Terminal
	song    playlist.Song
	session string
	images  []image.Image
	exit    context.CancelFunc

	index  int
	toMenu bool
}

func (n *navigator) show(i int) {
	n.index = i
	n.term.SetImages(n.images[i], n.images[(i+1)%len(n.images)])
}

func (n *navigator) OnAdvance(next int) {
	n.show(next)
	if err := n.store.SaveProgress(context.Background(), n.song.ID, next); err != nil {
		n.log.Warn("save progress", "error", err)
	}
}

// OnBack steps back one image; from the first image it returns to song selection
func (n *navigator) OnBack() {
	if n.index == 0 {
		n.toMenu = true
		n.exit()
		return
	}
	n.show(n.index - 1)
}

func (n *navigator) OnReveal(rec reveal.Record) {
	_, err := n.store.RecordReveal(context.Background(), store.Reveal{
		Session:  n.session,
		Song:     n.song.ID,
		Index:    rec.Index,
		Coverage: rec.Coverage,
		Marks:    rec.Marks,
		Forced:   rec.Forced,
		Elapsed:  rec.Elapsed,
	})
	if err != nil {
		n.log.Warn("record reveal", "error", err)
	}
}
