package usecase

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/fardannozami/streak-limpo/internal/domain"
)

type GetTriggersUsecase struct {
	triggers domain.TriggerRepository
}

func NewGetTriggersUsecase(triggers domain.TriggerRepository) *GetTriggersUsecase {
	return &GetTriggersUsecase{triggers: triggers}
}

// Execute lists the user's triggers on or after sinceDay, newest day first.
// Failures yield an empty list.
func (uc *GetTriggersUsecase) Execute(ctx context.Context, session domain.Session, sinceDay string) []*domain.TriggerEvent {
	if !session.Authenticated() {
		return []*domain.TriggerEvent{}
	}

	events, err := uc.triggers.ListTriggersSince(ctx, session.UserID, sinceDay)
	if err != nil {
		logrus.Errorf("error fetching triggers for %s: %v", session.UserID, err)
		return []*domain.TriggerEvent{}
	}
	if events == nil {
		return []*domain.TriggerEvent{}
	}
	return events
}

// CountBySlot tallies events per time slot. Every slot is present.
func CountBySlot(events []*domain.TriggerEvent) map[domain.TimeSlot]int {
	counts := make(map[domain.TimeSlot]int, len(domain.TimeSlots))
	for _, s := range domain.TimeSlots {
		counts[s] = 0
	}
	for _, e := range events {
		counts[e.TimeSlot]++
	}
	return counts
}
