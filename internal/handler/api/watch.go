package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"CoinFunnel/internal/domain/models"
	"CoinFunnel/internal/usecase"
	apphttp "CoinFunnel/pkg/http"
	applogger "CoinFunnel/pkg/logger"
)

// WatchHandler exposes the pipeline state over HTTP.
type WatchHandler struct {
	board  *usecase.StatusBoard
	logger *applogger.Logger
}

// NewWatchHandler creates the ops API handler.
func NewWatchHandler(board *usecase.StatusBoard, logger *applogger.Logger) *WatchHandler {
	return &WatchHandler{board: board, logger: logger}
}

// RegisterRoutes mounts the API routes.
func (h *WatchHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.GET("/status", h.Status)
	g.GET("/watchlist", h.Watchlist)
	g.GET("/stream", h.Stream)
}

// Health reports liveness.
func (h *WatchHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Status returns the current pipeline phase and watchlist.
func (h *WatchHandler) Status(c echo.Context) error {
	phase, passes, watchlist, updatedAt := h.board.Status()

	resp := models.StatusResponse{
		Phase:     phase,
		PassCount: passes,
		Watchlist: watchlist,
	}
	if !updatedAt.IsZero() {
		resp.LastUpdate = updatedAt.Format(time.RFC3339)
	}
	return apphttp.SuccessResponse(c, resp)
}

// Watchlist returns the latest tick evaluations, optionally filtered by
// execution state.
func (h *WatchHandler) Watchlist(c echo.Context) error {
	var req models.WatchlistRequest
	if verr := apphttp.ReadAndValidateRequest(c, &req); verr != nil {
		return apphttp.BadRequestResponse(c, verr)
	}

	evals := h.board.Evaluations()
	entries := make([]models.WatchlistEntry, 0, len(evals))
	for _, eval := range evals {
		if req.State != "any" && string(eval.State) != req.State {
			continue
		}
		if len(entries) >= req.Limit {
			break
		}

		entry := models.WatchlistEntry{
			AssetID:     eval.AssetID,
			Name:        eval.Name,
			Price:       eval.Price,
			Regime:      string(eval.Regime),
			Total:       eval.Total,
			Technical:   eval.Technical,
			Fundamental: eval.Fundamental,
			State:       eval.State,
			EntryTarget: eval.EntryTarget,
			Label:       eval.Label,
		}
		if record, ok := h.board.Record(eval.AssetID); ok {
			entry.Headline = record.Headline
		}
		entries = append(entries, entry)
	}

	return apphttp.SuccessResponse(c, entries)
}
