package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fardannozami/streak-limpo/internal/clock"
	"github.com/fardannozami/streak-limpo/internal/domain"
)

const defaultTriggerWindowDays = 7

type HabitToggler interface {
	Execute(ctx context.Context, session domain.Session, habitID string) (domain.DailyHabitState, error)
}

type HabitsReader interface {
	Today(ctx context.Context, session domain.Session) (domain.DailyHabitState, error)
	ForDay(ctx context.Context, session domain.Session, dayKey string) (domain.DailyHabitState, error)
}

type TriggerLogger interface {
	Execute(ctx context.Context, session domain.Session, emotion, triggerContext string, intensity int) (*domain.TriggerEvent, error)
}

type TriggerLister interface {
	Execute(ctx context.Context, session domain.Session, sinceDay string) []*domain.TriggerEvent
}

type RelapseRecorder interface {
	Execute(ctx context.Context, session domain.Session) (*domain.RelapseResult, error)
}

type DashboardGetter interface {
	Execute(ctx context.Context, session domain.Session) (*Dashboard, error)
}

type Onboarder interface {
	Execute(ctx context.Context, session domain.Session, email string, answers []domain.OnboardingAnswer) (*domain.UserProfile, error)
}

// Handlers groups the use cases the chat commands route to.
type Handlers struct {
	ToggleHabit   HabitToggler
	Habits        HabitsReader
	LogTrigger    TriggerLogger
	ListTriggers  TriggerLister
	RecordRelapse RelapseRecorder
	Dashboard     DashboardGetter
	Onboard       Onboarder
}

// HandleMessageUsecase turns a chat message into a reply. Messages that are
// not commands yield an empty reply.
type HandleMessageUsecase struct {
	h       Handlers
	clock   clock.Clock
	catalog domain.HabitCatalog
}

func NewHandleMessageUsecase(h Handlers, clk clock.Clock) *HandleMessageUsecase {
	return &HandleMessageUsecase{h: h, clock: clk, catalog: domain.DefaultHabitCatalog}
}

func (uc *HandleMessageUsecase) Execute(ctx context.Context, session domain.Session, msg string) (string, error) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return "", nil
	}

	cmd, args, _ := strings.Cut(msg, " ")
	args = strings.TrimSpace(args)

	switch strings.ToLower(cmd) {
	case "#streak":
		return uc.streak(ctx, session)
	case "#habitos", "#hábitos":
		return uc.habits(ctx, session, args)
	case "#habito", "#hábito":
		return uc.toggle(ctx, session, args)
	case "#gatilho":
		return uc.logTrigger(ctx, session, args)
	case "#gatilhos":
		return uc.listTriggers(ctx, session, args)
	case "#recaida", "#recaída":
		return uc.relapse(ctx, session)
	case "#inicio", "#início":
		return uc.onboard(ctx, session, args)
	case "#sos":
		return sosGuide(), nil
	default:
		return "", nil
	}
}

func (uc *HandleMessageUsecase) streak(ctx context.Context, session domain.Session) (string, error) {
	d, err := uc.h.Dashboard.Execute(ctx, session)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return "Você ainda não começou. Envie #inicio para iniciar seu streak.", nil
	}
	if err != nil {
		return "", err
	}

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("Streak Limpo 🔥 %s\n", d.Elapsed))
	sb.WriteString(fmt.Sprintf("Dia %d · Recaídas: %d\n\n", d.DayNumber, d.Profile.RelapseCount))
	sb.WriteString(fmt.Sprintf("%s\n%s\n\n", d.Personality.Title, d.Personality.Text))
	sb.WriteString(fmt.Sprintf("Missão do dia: %s – %s\n", d.Mission.Title, d.Mission.Description))
	sb.WriteString(fmt.Sprintf("Hábitos de hoje: %d%%", d.Percentage))
	return sb.String(), nil
}

// habits shows today's checklist, or a past day's when args is a date.
func (uc *HandleMessageUsecase) habits(ctx context.Context, session domain.Session, args string) (string, error) {
	if args == "" {
		state, err := uc.h.Habits.Today(ctx, session)
		if err != nil {
			return "", err
		}
		return uc.checklist(state), nil
	}

	if _, err := clock.ParseDay(args, uc.clock.Location()); err != nil {
		return "Data inválida. Use #habitos AAAA-MM-DD", nil
	}
	state, err := uc.h.Habits.ForDay(ctx, session, args)
	if err != nil {
		return "", err
	}
	return uc.checklist(state), nil
}

func (uc *HandleMessageUsecase) checklist(state domain.DailyHabitState) string {
	today := state.DayKey == clock.Today(uc.clock)
	title := "Hábitos de hoje"
	if !today {
		title = "Hábitos de"
	}

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("%s (%s) – %d%%\n", title, state.DayKey, state.CompletionPercentage(len(uc.catalog))))
	for _, h := range uc.catalog {
		mark := "⬜"
		if state.IsCompleted(h.ID) {
			mark = "✅"
		}
		sb.WriteString(fmt.Sprintf("%s %s. %s\n", mark, h.ID, h.Label))
	}
	if today {
		sb.WriteString("\nUse #habito <número> para marcar ou desmarcar.")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (uc *HandleMessageUsecase) toggle(ctx context.Context, session domain.Session, args string) (string, error) {
	state, err := uc.h.ToggleHabit.Execute(ctx, session, args)
	if errors.Is(err, domain.ErrUnknownHabit) {
		return fmt.Sprintf("Hábito desconhecido. Escolha um número de 1 a %d, ex: #habito 1", len(uc.catalog)), nil
	}
	if err != nil {
		return "", err
	}
	return uc.checklist(state), nil
}

const triggerUsage = "Formato: #gatilho <emoção>; <contexto>; <intensidade 1-5>"

func (uc *HandleMessageUsecase) logTrigger(ctx context.Context, session domain.Session, args string) (string, error) {
	parts := strings.Split(args, ";")
	if len(parts) != 3 {
		return triggerUsage, nil
	}
	emotion := strings.TrimSpace(parts[0])
	triggerContext := strings.TrimSpace(parts[1])
	intensity, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if emotion == "" || triggerContext == "" || err != nil {
		return triggerUsage, nil
	}

	event, err := uc.h.LogTrigger.Execute(ctx, session, emotion, triggerContext, intensity)
	switch {
	case errors.Is(err, domain.ErrInvalidIntensity):
		return triggerUsage, nil
	case errors.Is(err, domain.ErrNotAuthenticated):
		return "Não foi possível identificar você.", nil
	case err != nil:
		logrus.Errorf("critical error saving trigger log: %v", err)
		return "Não consegui salvar o gatilho. Tente novamente.", nil
	}

	return fmt.Sprintf("Gatilho registrado: %s (%s), intensidade %d · Dia %d · %s",
		event.Emotion, event.Context, event.Intensity, event.DayNumber, event.TimeSlot), nil
}

func (uc *HandleMessageUsecase) listTriggers(ctx context.Context, session domain.Session, args string) (string, error) {
	sinceDay := args
	if sinceDay == "" {
		now := uc.clock.Now()
		sinceDay = clock.DayKey(now.AddDate(0, 0, -(defaultTriggerWindowDays-1)), uc.clock.Location())
	} else if _, err := clock.ParseDay(sinceDay, uc.clock.Location()); err != nil {
		return "Data inválida. Use #gatilhos AAAA-MM-DD", nil
	}

	events := uc.h.ListTriggers.Execute(ctx, session, sinceDay)
	if len(events) == 0 {
		return fmt.Sprintf("Nenhum gatilho registrado desde %s.", sinceDay), nil
	}

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("Gatilhos desde %s: %d\n", sinceDay, len(events)))
	counts := CountBySlot(events)
	for _, slot := range domain.TimeSlots {
		sb.WriteString(fmt.Sprintf("%s: %d\n", slot, counts[slot]))
	}
	sb.WriteString("\n")
	for _, e := range events {
		sb.WriteString(fmt.Sprintf("%s · D%d · %s · %s (%s) %d/5\n", e.DateKey, e.DayNumber, e.TimeSlot, e.Emotion, e.Context, e.Intensity))
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

func (uc *HandleMessageUsecase) relapse(ctx context.Context, session domain.Session) (string, error) {
	result, err := uc.h.RecordRelapse.Execute(ctx, session)
	if err != nil {
		logrus.Errorf("error logging relapse: %v", err)
		return "Erro ao registrar. Verifique sua conexão e tente novamente.", nil
	}
	return fmt.Sprintf("Streak zerado. Dia 1.\n\n%s", result.Quote), nil
}

// onboard starts a streak for a user without a profile. Optional args are the
// victory mode and focus pillar, e.g. "#inicio A_MONK B_BODY".
func (uc *HandleMessageUsecase) onboard(ctx context.Context, session domain.Session, args string) (string, error) {
	_, err := uc.h.Dashboard.Execute(ctx, session)
	if err == nil {
		return "Seu streak já está ativo. Envie #streak para ver.", nil
	}
	if !errors.Is(err, domain.ErrProfileNotFound) {
		return "", err
	}

	var answers []domain.OnboardingAnswer
	fields := strings.Fields(args)
	if len(fields) > 0 {
		answers = append(answers, domain.OnboardingAnswer{QuestionID: domain.VictoryModeQuestion, Value: strings.ToUpper(fields[0])})
	}
	if len(fields) > 1 {
		answers = append(answers, domain.OnboardingAnswer{QuestionID: domain.FocusPillarQuestion, Value: strings.ToUpper(fields[1])})
	}

	if _, err := uc.h.Onboard.Execute(ctx, session, "", answers); err != nil {
		return "", err
	}
	return "Streak iniciado. Dia 1. Envie #habitos para ver seus hábitos de hoje.", nil
}

func sosGuide() string {
	sb := strings.Builder{}
	sb.WriteString("SOS · Respiração 4-4-4\n")
	for _, p := range domain.BreathingCycle {
		sb.WriteString(fmt.Sprintf("%s... %d segundos\n", p.Instruction, p.Seconds))
	}
	sb.WriteString(fmt.Sprintf("Repita o ciclo %d vezes. Concentre-se apenas na respiração.\n\n", domain.BreathingRounds))
	sb.WriteString("PRÓXIMOS PASSOS PARA QUEBRAR O CICLO:\n")
	for _, tip := range domain.CycleBreakers {
		sb.WriteString(fmt.Sprintf("• %s\n", tip))
	}
	return strings.TrimRight(sb.String(), "\n")
}
