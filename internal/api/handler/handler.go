package handler

import (
	"log/slog"

	"omnichat/backend/internal/chathub"
	"omnichat/backend/internal/config"
)

// Handler carries the hub and config into the gin routes.
type Handler struct {
	Hub *chathub.Hub
	Cfg *config.Config
	Log *slog.Logger
}

func NewHandler(hub *chathub.Hub, cfg *config.Config, log *slog.Logger) *Handler {
	return &Handler{Hub: hub, Cfg: cfg, Log: log}
}
