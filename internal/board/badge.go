package board

import "taskboard/internal/service"

// Badge is the visual style of a status label.
type Badge int

const (
	BadgeNeutral Badge = iota
	BadgeWarning
	BadgeSuccess
)

func (b Badge) String() string {
	switch b {
	case BadgeSuccess:
		return "success"
	case BadgeWarning:
		return "warning"
	default:
		return "neutral"
	}
}

// BadgeFor maps a status to its badge. Any value other than Completed or
// In Progress, Pending included, is neutral.
func BadgeFor(s service.Status) Badge {
	switch s {
	case service.StatusCompleted:
		return BadgeSuccess
	case service.StatusInProgress:
		return BadgeWarning
	default:
		return BadgeNeutral
	}
}
