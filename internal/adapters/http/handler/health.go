package handler

import (
	"context"
	"net/http"
)

// Pinger は準備状態の確認に必要な最小限の契約です。
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler は liveness / readiness を公開します。
type HealthHandler struct {
	pinger Pinger
}

// NewHealthHandler は HealthHandler を生成します。
func NewHealthHandler(pinger Pinger) *HealthHandler {
	return &HealthHandler{pinger: pinger}
}

// Liveness はプロセスが応答可能であれば 200 を返します。
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness はデータベースへ到達できる場合に 200 を返します。
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.pinger == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}
	if err := h.pinger.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
