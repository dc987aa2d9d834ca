package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	walog "go.mau.fi/whatsmeow/util/log"

	"github.com/fardannozami/streak-limpo/internal/app/usecase"
	"github.com/fardannozami/streak-limpo/internal/clock"
	"github.com/fardannozami/streak-limpo/internal/config"
	"github.com/fardannozami/streak-limpo/internal/domain"
	"github.com/fardannozami/streak-limpo/internal/infra/cache"
	"github.com/fardannozami/streak-limpo/internal/infra/sqlite"
	"github.com/fardannozami/streak-limpo/internal/infra/wa"
	"github.com/fardannozami/streak-limpo/internal/metrics"
	"github.com/fardannozami/streak-limpo/internal/streak"
)

func main() {
	// 1. Config & logging
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	cfg.ConfigureLogging()

	clk, err := clock.NewSystem(cfg.Timezone)
	if err != nil {
		logrus.Fatalf("Failed to load timezone: %v", err)
	}

	ctx := context.Background()

	// 2. Remote store
	db, err := sqlite.Open(ctx, cfg.SQLitePath)
	if err != nil {
		logrus.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	profiles := sqlite.NewProfileRepository(db)
	history := sqlite.NewDailyHistoryRepository(db)
	triggers := sqlite.NewTriggerRepository(db)
	if err := sqlite.InitTables(ctx, profiles, history, triggers); err != nil {
		logrus.Fatalf("Failed to init tables: %v", err)
	}

	// 3. Local cache
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logrus.Fatalf("Failed to open local cache: %v", err)
	}
	defer closeStore()
	habitCache := cache.NewHabitCache(store)
	profileCache := cache.NewProfileCache(store)

	// 4. Metrics
	var m *metrics.Metrics
	var metricsServer *metrics.Server
	if cfg.MetricsEnabled {
		m = metrics.New()
		metricsServer = metrics.NewServer(m, cfg.MetricsPort, "/metrics")
		metricsServer.Start()
	}

	// 5. Use cases
	toggleUC := usecase.NewToggleHabitUsecase(habitCache, history, clk, m)
	toggleUC.SetMirrorTimeout(cfg.MirrorTimeout())
	habitsUC := usecase.NewGetHabitsUsecase(habitCache, history, clk)
	loadProfileUC := usecase.NewLoadProfileUsecase(profiles, profileCache)

	handleMessageUC := usecase.NewHandleMessageUsecase(usecase.Handlers{
		ToggleHabit:   toggleUC,
		Habits:        habitsUC,
		LogTrigger:    usecase.NewLogTriggerUsecase(profiles, profileCache, triggers, clk, m),
		ListTriggers:  usecase.NewGetTriggersUsecase(triggers),
		RecordRelapse: usecase.NewRecordRelapseUsecase(profiles, habitCache, profileCache, clk, m),
		Dashboard:     usecase.NewGetDashboardUsecase(loadProfileUC, habitsUC, clk),
		Onboard:       usecase.NewCompleteOnboardingUsecase(profiles, profileCache, clk),
	}, clk)

	// 6. Owner streak gauge
	countdown := streak.NewCountdown(clk, ownerAnchor(profileCache, cfg.OwnerID), time.Second, func(d streak.Duration) {
		m.SetStreakSeconds(d.TotalSeconds())
	})
	if cfg.OwnerID != "" && m != nil {
		if _, _, err := loadProfileUC.Execute(ctx, domain.Session{UserID: cfg.OwnerID}); err != nil {
			logrus.Warnf("Owner profile not loaded: %v", err)
		}
		countdown.Start(ctx)
	}

	// 7. WhatsApp service
	waService := wa.NewService(cfg.SQLitePath, walog.Stdout("Client", "INFO", true), sqlite.NewLIDResolver(db), wa.Options{
		GroupID:         cfg.GroupID,
		ReplyDelayMinMs: cfg.ReplyDelayMinMs,
		ReplyDelayMaxMs: cfg.ReplyDelayMaxMs,
		ShowTyping:      cfg.ShowTyping,
	})
	waService.SetHandler(func(ctx context.Context, in wa.Incoming) (string, error) {
		return handleMessageUC.Execute(ctx, domain.Session{UserID: in.UserID}, in.Text)
	})

	if err := waService.Initialize(ctx); err != nil {
		logrus.Fatalf("Failed to initialize WhatsApp service: %v", err)
	}

	// 8. Connect / login
	if !waService.IsLoggedIn() {
		if cfg.BotPhone != "" {
			if err := waService.Connect(); err != nil {
				logrus.Fatalf("Failed to connect for pairing: %v", err)
			}

			logrus.Infof("Not logged in. Attempting to pair with phone: %s", cfg.BotPhone)
			code, err := waService.Pair(ctx, cfg.BotPhone)
			if err != nil {
				logrus.Errorf("Failed to generate pair code: %v", err)
			} else {
				fmt.Println("==================================================")
				fmt.Printf("PAIR CODE: %s\n", code)
				fmt.Println("==================================================")
				fmt.Println("Please verify this code on your WhatsApp (Linked Devices > Link with phone number)")
			}
		} else {
			logrus.Info("Not logged in. BOT_PHONE not set. Printing QR...")
			waService.PrintQR(ctx)
		}
	} else {
		if err := waService.Connect(); err != nil {
			logrus.Fatalf("Failed to connect: %v", err)
		}
		logrus.Info("Client is already logged in.")
	}

	logrus.Info("Bot is running... Press Ctrl+C to exit.")

	// 9. Wait for OS signal
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	logrus.Info("Shutting down...")
	waService.Disconnect()
	countdown.Stop()
	toggleUC.Wait()

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logrus.Errorf("Metrics server shutdown failed: %v", err)
		}
	}
}

func openStore(ctx context.Context, cfg *config.Config) (cache.KVStore, func(), error) {
	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		client, err := cache.DialRedis(ctx, cfg.RedisAddr(), cfg.RedisPassword)
		if err != nil {
			return nil, nil, err
		}
		logrus.Infof("Using Redis cache at %s", cfg.RedisAddr())
		return cache.NewRedisStore(client, cfg.RedisPrefix), func() { client.Close() }, nil
	default:
		logrus.Infof("Using disk cache at %s", cfg.CacheDir)
		return cache.NewDiskvStore(cfg.CacheDir), func() {}, nil
	}
}

// ownerAnchor reads the owner's anchor from the local profile cache so the
// gauge follows relapses without a remote read per tick.
func ownerAnchor(profiles *cache.ProfileCache, ownerID string) streak.AnchorFunc {
	return func() (time.Time, bool) {
		p, ok := profiles.Read(ownerID)
		if !ok || !p.HasAnchor() {
			return time.Time{}, false
		}
		return p.StreakAnchor, true
	}
}
