package models

const (
	CycleLength          = 28
	WarningPhaseStartDay = 20
	ActivePillDays       = 24
)

const (
	PhaseFollicular = "follicular"
	PhaseLuteal     = "luteal"
)

const (
	PillActive  = "active"
	PillPlacebo = "placebo"
)
