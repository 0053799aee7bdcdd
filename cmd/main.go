package main

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"omnichat/backend/internal/api/handler"
	"omnichat/backend/internal/chathub"
	"omnichat/backend/internal/config"
	"omnichat/backend/internal/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg)
	log.Info("starting omnichat backend", "addr", cfg.Addr)

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Error("cannot create upload dir", "dir", cfg.UploadDir, "err", err)
		os.Exit(1)
	}

	hub := chathub.NewHub(log)
	go hub.Run()

	r := gin.Default()
	h := handler.NewHandler(hub, cfg, log)

	r.GET("/token", h.GetToken)
	r.GET("/ws", h.ServeWebSocket)
	r.POST("/upload", h.Upload)
	r.Static("/uploads", cfg.UploadDir)

	r.GET("/health", h.Health)
	r.GET("/stats", h.Stats)
	r.GET("/debug", h.Debug)

	server := &http.Server{
		Addr:           cfg.Addr,
		Handler:        r,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	if err := server.ListenAndServe(); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
