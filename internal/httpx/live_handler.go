package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const keepAlive = 25 * time.Second

// GET /live streams change notices as server-sent events.
func (a *API) streamLive(w http.ResponseWriter, r *http.Request) {
	if a.Live == nil {
		writeMsg(w, http.StatusServiceUnavailable, "live updates disabled")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeMsg(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	notices, err := a.Live.Subscribe(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	tick := time.NewTicker(keepAlive)
	defer tick.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-tick.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case n, ok := <-notices:
			if !ok {
				return
			}
			raw, _ := json.Marshal(n)
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", n.Type, raw)
			flusher.Flush()
		}
	}
}
