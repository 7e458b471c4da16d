package asset

// DefaultRevealFSMConfig returns the default reveal FSM TOML configuration
const DefaultRevealFSMConfig = `

initial = "Idle"

# === Interactive: input accepted, coverage evaluated ===

[states.Interactive]
transitions = [
    { trigger = "EventBack", target = "Idle" },
    { trigger = "EventCancel", target = "Idle" },
]

[states.Idle]
parent = "Interactive"
on_enter = [
    { action = "ClearMarks" },
    { action = "UnlockInput" },
]
transitions = [
    { trigger = "EventMarkAdded", target = "Revealing" },
]

[states.Revealing]
parent = "Interactive"
on_update = [
    { action = "PublishCoverage" },
]
transitions = [
    { trigger = "Tick", target = "Transitioning", guard = "CoverageAbove" },
    { trigger = "EventForceReveal", target = "Transitioning", guard = "NotLocked" },
]

# === Transitioning: lockout until cooldown elapses ===

[states.Transitioning]
on_enter = [
    { action = "LockInput" },
    { action = "RecordReveal" },
]
on_exit = [
    { action = "CompleteTransition" },
]
transitions = [
    { trigger = "Tick", target = "Idle", guard = "CooldownElapsed" },
]
`
