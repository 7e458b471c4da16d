package event

import "strings"

var (
	nameToType = map[string]EventType{
		"EventPointerDown": EventPointerDown,
		"EventPointerMove": EventPointerMove,
		"EventPointerUp":   EventPointerUp,
		"EventTap":         EventTap,
		"EventResize":      EventResize,
		"EventBack":        EventBack,
		"EventForceReveal": EventForceReveal,
		"EventCancel":      EventCancel,
		"EventToggleMusic": EventToggleMusic,
		"EventQuit":        EventQuit,
		"EventMarkAdded":   EventMarkAdded,
	}
	typeToName = func() map[EventType]string {
		m := make(map[EventType]string, len(nameToType))
		for name, et := range nameToType {
			m[et] = name
		}
		return m
	}()
)

// GetEventType returns the EventType for a given name
func GetEventType(name string) (EventType, bool) {
	// Special case for FSM "Tick"
	if strings.EqualFold(name, "Tick") {
		return EventTick, true
	}
	et, ok := nameToType[name]
	return et, ok
}

// GetEventName returns the string name for an EventType
func GetEventName(et EventType) string {
	if et == EventTick {
		return "Tick"
	}
	if name, ok := typeToName[et]; ok {
		return name
	}
	return "Unknown"
}

// String returns the registered event name
func (et EventType) String() string {
	return GetEventName(et)
}
