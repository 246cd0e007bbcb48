package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lucasrodor/projeto-financeiro/internal/chart"
	"github.com/lucasrodor/projeto-financeiro/internal/dashboard"
)

const wsWriteWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WSMessage is one frame of the chart stream
type WSMessage struct {
	Type    string      `json:"type"` // progress | figure | error
	Payload interface{} `json:"payload"`
}

// ProgressUpdate reports one finished ticker fetch
type ProgressUpdate struct {
	Done   int    `json:"done"`
	Total  int    `json:"total"`
	Ticker string `json:"ticker"`
	Error  string `json:"error,omitempty"`
}

// ChartStream builds the session chart and pushes per-ticker progress, then
// the figure (or the error), then closes
// GET /ws/chart?data_ini=2024-01-02&data_fim=2024-06-28
func (h *Handler) ChartStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	sess := currentSession(r)
	log := h.logger.WithSession(sess.ID)

	send := func(msg WSMessage) bool {
		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(msg); err != nil {
			log.WithError(err).Debug("WebSocket write failed")
			return false
		}
		return true
	}

	q := r.URL.Query()
	start, end, err := h.chartRange(q.Get("data_ini"), q.Get("data_fim"))
	if err != nil {
		send(errorMessage(err))
		return
	}

	alive := true
	series, err := h.service.BuildChart(r.Context(), sess, start, end, func(done, total int, ticker string, ferr error) {
		if !alive {
			return
		}
		update := ProgressUpdate{Done: done, Total: total, Ticker: ticker}
		if ferr != nil {
			update.Error = ferr.Error()
		}
		alive = send(WSMessage{Type: "progress", Payload: update})
	})
	if err != nil {
		send(errorMessage(err))
		return
	}

	if send(WSMessage{Type: "figure", Payload: chart.NewFigure(series)}) {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(wsWriteWait))
	}
}

func errorMessage(err error) WSMessage {
	return WSMessage{
		Type:    "error",
		Payload: errorResponse{Error: dashboard.Message(err), Kind: dashboard.Classify(err)},
	}
}
