package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/qaforge/qaforge/config"
	"github.com/qaforge/qaforge/internal/executor"
	"github.com/qaforge/qaforge/internal/pipeline"
	"github.com/qaforge/qaforge/internal/vectorstore/chroma"
	"github.com/qaforge/qaforge/provider"
)

// Run wires the provider, vector store, pipeline and executor together and
// serves the HTTP API on addr. An empty addr falls back to the configured
// server address.
func Run(cfg *config.Config, addr string) error {
	prov, err := provider.NewProvider(cfg.LLM)
	if err != nil {
		return err
	}
	store := chroma.NewStorage(chroma.Config{
		URL:        cfg.Vector.URL,
		Collection: cfg.Vector.Collection,
		Timeout:    cfg.Vector.Timeout,
	})
	pipe, err := pipeline.New(cfg, prov, store)
	if err != nil {
		return err
	}
	if err := pipe.Initialize(context.Background()); err != nil {
		return fmt.Errorf("initializing pipeline: %w", err)
	}

	e := newEcho()
	h := &Handler{
		Pipeline:      pipe,
		Runner:        executor.New(cfg.Executor),
		DocumentsPath: cfg.Documents.Path,
	}
	h.Register(e)

	if addr == "" {
		addr = cfg.Server.Address
	}
	if addr == "" {
		addr = ":8000"
	}
	log.Printf("listening on %s", addr)
	return e.Start(addr)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Cookie"},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	return e
}
