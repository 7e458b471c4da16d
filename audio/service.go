package audio

import (
	"log/slog"
	"sync/atomic"
)

// Service wraps a Player as a hub service
// An unavailable output device disables audio instead of failing startup
type Service struct {
	player   *Player
	log      *slog.Logger
	disabled atomic.Bool
}

// NewService creates the audio service around player
func NewService(player *Player, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{player: player, log: log}
}

// Player returns the wrapped player
func (s *Service) Player() *Player {
	return s.player
}

// Disabled reports whether the output device failed to open
func (s *Service) Disabled() bool {
	return s.disabled.Load()
}

func (s *Service) Name() string           { return "audio" }
func (s *Service) Dependencies() []string { return []string{"status"} }

// Init implements service.Service
// A bool arg is the mute flag; true disables output entirely
func (s *Service) Init(args ...any) error {
	for _, arg := range args {
		if muted, ok := arg.(bool); ok {
			s.disabled.Store(muted)
			break
		}
	}
	return nil
}

// Start opens the output device; failure is logged and audio stays off
func (s *Service) Start() error {
	if s.disabled.Load() {
		return nil
	}
	if err := s.player.Open(); err != nil {
		s.log.Warn("audio unavailable", "error", err)
		s.disabled.Store(true)
	}
	return nil
}

// Stop implements service.Service
func (s *Service) Stop() error {
	s.player.Close()
	return nil
}
