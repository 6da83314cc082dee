package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/saathi-labs/saathi/config"
	"github.com/saathi-labs/saathi/internal/pipeline"
	"github.com/saathi-labs/saathi/internal/telemetry"
	groq_provider "github.com/saathi-labs/saathi/provider/groq"
	openai_provider "github.com/saathi-labs/saathi/provider/openai"
	"github.com/saathi-labs/saathi/tools/transcribe"
	"github.com/saathi-labs/saathi/tools/web_fetch"
	"github.com/saathi-labs/saathi/tools/web_search"
)

const (
	appName    = "Saathi AI Backend"
	appVersion = "1.0.0"
)

// Run wires the providers into the pipeline and serves the HTTP API on addr.
func Run(cfg *config.Config, addr string) error {
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e := newEcho(baseLogger)

	orch, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	qh := &QueryHandler{
		Orch:          orch,
		MaxAudioBytes: cfg.Limits.MaxAudioBytes,
		MaxImageBytes: cfg.Limits.MaxImageBytes,
		Logger:        baseLogger,
	}
	qh.Register(e.Group("/api"))

	baseLogger.Printf("listening on %s", addr)
	return e.Start(addr)
}

// newEcho builds the router with middleware, error mapping and the
// status/metrics routes. Handlers are registered by the caller.
func newEcho(baseLogger *log.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	// Unified HTTP error handler with structured JSON and logging
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		var perr *pipeline.Error
		if errors.As(err, &perr) {
			msg = perr.Error()
			switch perr.Kind {
			case pipeline.KindInvalidInput:
				code = http.StatusBadRequest
			case pipeline.KindQuota:
				code = http.StatusTooManyRequests
			case pipeline.KindProvider:
				code = http.StatusBadGateway
			}
		} else if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, ErrorResponse{Success: false, Error: msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	status := func(c echo.Context) error {
		return c.JSON(http.StatusOK, StatusResponse{Name: appName, Version: appVersion, Status: "running"})
	}
	e.GET("/", status)
	e.GET("/health", status)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	return e
}

// buildPipeline constructs the provider clients and assembles the orchestrator.
func buildPipeline(cfg *config.Config) (*pipeline.Orchestrator, error) {
	groqClient := groq_provider.NewClient(cfg.Providers.Groq)
	visionClient := openai_provider.NewClient(cfg.Providers.OpenAI)

	transcriber, err := transcribe.NewTranscriber(transcribe.Provider(cfg.Transcription.Provider), groqClient, cfg.Providers.Deepgram)
	if err != nil {
		return nil, fmt.Errorf("building transcriber: %w", err)
	}

	var searcher pipeline.Searcher
	ws, err := web_search.NewWebSearcher(cfg.Search)
	if err != nil {
		return nil, fmt.Errorf("building web searcher: %w", err)
	}
	if ws != nil {
		searcher = ws
	}

	tele := telemetry.NewTelemetry(cfg.Telemetry)
	orch := pipeline.NewOrchestrator(cfg, nil, tele, transcriber, visionClient, searcher, groqClient)
	if cfg.Search.FetchTopResult {
		orch.SetFetcher(web_fetch.Fetcher{Timeout: cfg.Search.Timeout})
	}
	return orch, nil
}
