package usecase

import (
	"context"

	"github.com/fardannozami/streak-limpo/internal/clock"
	"github.com/fardannozami/streak-limpo/internal/domain"
	"github.com/fardannozami/streak-limpo/internal/streak"
)

type Message struct {
	Title string
	Text  string
}

type Mission struct {
	Title       string
	Description string
}

type Dashboard struct {
	Profile     *domain.UserProfile
	Source      ProfileSource
	Elapsed     streak.Duration
	DayNumber   int
	Personality Message
	Mission     Mission
	Habits      domain.DailyHabitState
	Percentage  int
}

type GetDashboardUsecase struct {
	profiles *LoadProfileUsecase
	habits   *GetHabitsUsecase
	clock    clock.Clock
	catalog  domain.HabitCatalog
}

func NewGetDashboardUsecase(profiles *LoadProfileUsecase, habits *GetHabitsUsecase, clk clock.Clock) *GetDashboardUsecase {
	return &GetDashboardUsecase{profiles: profiles, habits: habits, clock: clk, catalog: domain.DefaultHabitCatalog}
}

func (uc *GetDashboardUsecase) Execute(ctx context.Context, session domain.Session) (*Dashboard, error) {
	profile, source, err := uc.profiles.Execute(ctx, session)
	if err != nil {
		return nil, err
	}

	habits, err := uc.habits.Today(ctx, session)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	return &Dashboard{
		Profile:     profile,
		Source:      source,
		Elapsed:     streak.Elapsed(profile.StreakAnchor, now),
		DayNumber:   streak.DayNumberFor(profile, now),
		Personality: PersonalityFor(profile.VictoryMode),
		Mission:     MissionFor(profile.FocusPillar),
		Habits:      habits,
		Percentage:  habits.CompletionPercentage(len(uc.catalog)),
	}, nil
}

func PersonalityFor(victoryMode string) Message {
	if victoryMode == "A_MONK" || victoryMode == "B_FOCUSED" {
		return Message{Title: "PROTOCOLO ATIVO", Text: "Mantenha a guarda alta. O inimigo não dorme."}
	}
	return Message{Title: "ESTADO DE FLUXO", Text: "Um dia de cada vez. O progresso é constante."}
}

func MissionFor(focusPillar string) Mission {
	switch focusPillar {
	case "A_WORK":
		return Mission{Title: "Foco Profundo", Description: "90 min sem interrupções."}
	case "B_BODY":
		return Mission{Title: "Treino do Dia", Description: "Busque a falha muscular."}
	case "C_LOVE":
		return Mission{Title: "Conexão Real", Description: "Ligue para alguém."}
	case "D_MIND":
		return Mission{Title: "Meditação", Description: "10 min de silêncio."}
	default:
		return Mission{Title: "Definir Propósito", Description: "Revise suas metas."}
	}
}
