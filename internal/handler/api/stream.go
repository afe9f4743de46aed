package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	applogger "CoinFunnel/pkg/logger"
)

const streamWriteTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(_ *http.Request) bool { return true },
}

// Stream upgrades to a websocket and pushes each tick's evaluations as a
// JSON array until the client disconnects.
func (h *WatchHandler) Stream(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	updates, cancel := h.board.Subscribe()
	defer cancel()

	// Drain reads so close frames and pings are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Send the current snapshot immediately so clients don't wait a full
	// tick for their first frame.
	if evals := h.board.Evaluations(); len(evals) > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		if err := conn.WriteJSON(evals); err != nil {
			return nil
		}
	}

	for {
		select {
		case <-done:
			return nil
		case evals, ok := <-updates:
			if !ok {
				return nil
			}
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if err := conn.WriteJSON(evals); err != nil {
				h.logger.Debug("stream client gone", applogger.Error(err))
				return nil
			}
		}
	}
}
