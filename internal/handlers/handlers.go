// Package handlers wires the HTTP and websocket surface to the store, hub
// and analytics engine.
package handlers

import (
	"github.com/hirehub-dev/hirehub/internal/hub"
	"github.com/hirehub-dev/hirehub/internal/store"
)

type Handler struct {
	store store.Store
	hub   *hub.Hub
}

func New(st store.Store, h *hub.Hub) *Handler {
	return &Handler{store: st, hub: h}
}
