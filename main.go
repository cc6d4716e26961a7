package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/api/option"

	"dreamstream/archive"
	"dreamstream/audio"
	"dreamstream/config"
	"dreamstream/game"
	"dreamstream/gen"
	"dreamstream/handlers"
	"dreamstream/stage"
	"dreamstream/story"
)

func main() {
	// Missing .env is fine; the environment may carry everything already.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.AI.APIKey))
	if err != nil {
		logger.Fatal("genai client", zap.Error(err))
	}
	defer client.Close()

	store, err := archive.Open(cfg.Archive.Path)
	if err != nil {
		logger.Fatal("archive", zap.Error(err))
	}
	defer store.Close()

	engine := audio.NewEngine(logger)
	controller := stage.NewController(func(sc story.Scene) {
		engine.SetAmbience(sc.Mood)
	})

	models := gen.NewClient(client, cfg.AI.TextModel, cfg.AI.ImageModel, logger)
	orch := game.New(story.NewSession(), models, models, engine, controller, logger)

	h := &handlers.Handler{
		Orchestrator: orch,
		Engine:       engine,
		Archive:      store,
		Typewriter:   stage.NewTypewriter(),
		Logger:       logger,
	}

	mux := http.NewServeMux()

	fs := http.FileServer(http.Dir("./static"))
	mux.Handle("/static/", http.StripPrefix("/static/", fs))

	mux.HandleFunc("/", h.Index)
	mux.HandleFunc("POST /start", h.StartStory)
	mux.HandleFunc("POST /choose", h.Choose)
	mux.HandleFunc("POST /reset", h.Reset)
	mux.HandleFunc("GET /stream", h.Stream)
	mux.HandleFunc("GET /audio/ambience", h.Ambience)
	mux.HandleFunc("GET /audio/click", h.Click)
	mux.HandleFunc("GET /audio/swoosh", h.Swoosh)
	mux.HandleFunc("GET /download", h.DownloadStory)
	mux.HandleFunc("POST /archive", h.SaveStory)
	mux.HandleFunc("GET /archive", h.ListArchive)

	srv := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     mux,
		ReadTimeout: time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		// WriteTimeout bounds the SSE typewriter stream as well; keep it
		// generous.
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	logger.Info("listening", zap.String("addr", cfg.Server.Addr))
	logger.Fatal("server exited", zap.Error(srv.ListenAndServe()))
}

// newLogger builds the zap logger from env-driven settings.
func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level.SetLevel(zap.InfoLevel)
	}

	encoding := cfg.Encoding
	if encoding != "console" && encoding != "json" {
		encoding = "console"
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	zapCfg := zap.Config{
		Level:             level,
		DisableCaller:     true,
		DisableStacktrace: true,
		Encoding:          encoding,
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
	}
	return zapCfg.Build()
}
