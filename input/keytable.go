package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/washaway/event"
)

// KeyTable maps keys to session events
type KeyTable struct {
	Runes   map[rune]event.EventType
	Special map[tcell.Key]event.EventType
}

// DefaultKeyTable returns the standard bindings
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		Runes: map[rune]event.EventType{
			'b': event.EventBack,
			'n': event.EventForceReveal,
			' ': event.EventForceReveal,
			'c': event.EventCancel,
			'm': event.EventToggleMusic,
			'q': event.EventQuit,
		},
		Special: map[tcell.Key]event.EventType{
			tcell.KeyEscape:    event.EventQuit,
			tcell.KeyCtrlC:     event.EventQuit,
			tcell.KeyBackspace: event.EventBack,
			tcell.KeyLeft:      event.EventBack,
			tcell.KeyRight:     event.EventForceReveal,
		},
	}
}

// Lookup resolves a key event
func (kt *KeyTable) Lookup(ev *tcell.EventKey) (event.EventType, bool) {
	if ev.Key() == tcell.KeyRune {
		et, ok := kt.Runes[ev.Rune()]
		return et, ok
	}
	et, ok := kt.Special[ev.Key()]
	return et, ok
}
