package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/gyaneshwarpardhi/topicexplorer/internal/render"
)

// GET /v1/stream sends one "view" server-sent event per State. The first
// event carries the whole graph; later ones only what was added.
func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	// The stream outlives any server write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		h.log.Warn("stream: flush unsupported", zap.Error(err))
		return
	}

	states, cancel := h.eng.Store().Subscribe()
	defer cancel()

	ping := time.NewTicker(h.keepAlive)
	defer ping.Stop()

	var tracker render.Tracker
	for {
		select {
		case <-r.Context().Done():
			return
		case st, ok := <-states:
			if !ok {
				return
			}
			v := render.Project(st, h.shuffle)
			if u := tracker.Update(st); !u.Empty() {
				v.Graph = &u
			}
			data, err := json.Marshal(v)
			if err != nil {
				h.log.Error("stream: encode view", zap.Error(err))
				return
			}
			if _, err := fmt.Fprintf(w, "event: view\ndata: %s\n\n", data); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		case <-ping.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}
