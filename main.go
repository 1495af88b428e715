package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voxrelay/internal/api"
	"voxrelay/internal/config"
	"voxrelay/internal/service/ai"
	"voxrelay/internal/service/history"
	"voxrelay/internal/service/session"
	"voxrelay/internal/service/speech"
	"voxrelay/internal/service/voice"
	"voxrelay/internal/telegram"
	"voxrelay/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := os.Getenv("VOXRELAY_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	httpClient := &http.Client{Timeout: 60 * time.Second}
	bot := telegram.NewClient(httpClient, cfg.Telegram.BaseURL, cfg.Telegram.BotToken)
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 15*time.Second)
	me, err := bot.GetMe(startupCtx)
	startupCancel()
	if err != nil {
		log.Fatalf("telegram getMe: %v", err)
	}
	log.Printf("authorized as @%s", me.Username)

	historyStore := history.NewStore()
	sessionStore := session.NewStore()

	aiService, err := ai.NewService(cfg, historyStore)
	if err != nil {
		log.Fatalf("init completion client: %v", err)
	}

	prov := cfg.ActiveProvider()
	speechService := speech.NewService(prov.APIKey, prov.BaseURL, cfg.BasicConfig.SpeechLanguage)

	voiceDir := cfg.BasicConfig.VoiceTempDir
	if voiceDir == "" {
		voiceDir = "./data/voice"
	}
	if err := os.MkdirAll(voiceDir, 0o755); err != nil {
		log.Fatalf("create voice temp dir: %v", err)
	}
	pipeline := voice.NewPipeline(bot, bot, voice.NewFFmpegTranscoder(), speechService, aiService, voiceDir)

	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()
	sweepInterval := time.Duration(cfg.BasicConfig.TempCleanInterval) * time.Minute
	pipeline.StartSweeper(sweepCtx, sweepInterval, voice.DefaultWorkspaceTTL)

	manager := worker.NewManager(bot, sessionStore, historyStore, aiService, pipeline)
	dispatcher := worker.NewDispatcher(worker.DispatcherConfig{
		MinWorkers:        cfg.BasicConfig.MinWorkers,
		MaxWorkers:        cfg.BasicConfig.MaxWorkers,
		QueueSize:         cfg.BasicConfig.QueueSize,
		WorkerIdleTimeout: time.Duration(cfg.BasicConfig.WorkerIdleTimeout) * time.Minute,
	}, manager)

	handlers := api.NewHandler(dispatcher, cfg.BasicConfig.WebhookPath)
	router := gin.Default()
	handlers.RegisterRoutes(router)

	addr := cfg.BasicConfig.ServerAddress
	if addr == "" {
		addr = ":8090"
	}
	srv := &http.Server{Addr: addr, Handler: router}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	registerCtx, registerCancel := context.WithTimeout(context.Background(), 15*time.Second)
	err = bot.SetWebhook(registerCtx, cfg.BasicConfig.WebhookURL)
	registerCancel()
	if err != nil {
		log.Fatalf("register webhook: %v", err)
	}
	log.Printf("webhook registered: %s", cfg.BasicConfig.WebhookURL)

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()
	log.Printf("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := bot.DeleteWebhook(shutdownCtx); err != nil {
		log.Printf("deregister webhook: %v", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
