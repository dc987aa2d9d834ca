package domain

import (
	"context"
	"time"
)

type TimeSlot string

const (
	SlotMadrugada TimeSlot = "Madrugada"
	SlotManha     TimeSlot = "Manhã"
	SlotTarde     TimeSlot = "Tarde"
	SlotNoite     TimeSlot = "Noite"
)

// TimeSlots lists the slots in hour order.
var TimeSlots = []TimeSlot{SlotMadrugada, SlotManha, SlotTarde, SlotNoite}

// TimeSlotFor buckets the hour of t as observed in t's location.
func TimeSlotFor(t time.Time) TimeSlot {
	switch h := t.Hour(); {
	case h < 6:
		return SlotMadrugada
	case h < 12:
		return SlotManha
	case h < 18:
		return SlotTarde
	default:
		return SlotNoite
	}
}

const (
	MinIntensity = 1
	MaxIntensity = 5
)

// TriggerEvent is an immutable urge record.
type TriggerEvent struct {
	ID        string
	UserID    string
	Emotion   string
	Context   string
	Intensity int
	Timestamp time.Time
	DateKey   string
	DayNumber int
	TimeSlot  TimeSlot
}

type TriggerRepository interface {
	// AppendTrigger stores event and assigns its ID.
	AppendTrigger(ctx context.Context, event *TriggerEvent) error
	// ListTriggersSince returns events with DateKey >= sinceDay, newest day first.
	ListTriggersSince(ctx context.Context, userID, sinceDay string) ([]*TriggerEvent, error)
}
