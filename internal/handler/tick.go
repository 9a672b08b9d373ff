package handler

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/flight-price-watch/internal/service"
)

// Tick runs one tick over all watches and returns one result per watch.
// A tick interrupted by the client returns the results gathered so far
// with 503.
func (h *Handler) Tick(c echo.Context) error {
    results, err := h.Watcher.Tick(c.Request().Context())
    if err != nil {
        if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
            return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "tick interrupted", "results": results})
        }
        return respondError(c, err)
    }
    if results == nil {
        results = []service.TickResult{}
    }
    return c.JSON(http.StatusOK, results)
}

// ListAlerts returns alerts newest first, optionally only those of
// ?watch_id=.
func (h *Handler) ListAlerts(c echo.Context) error {
    var watchID *uint64
    if raw := strings.TrimSpace(c.QueryParam("watch_id")); raw != "" {
        id, err := strconv.ParseUint(raw, 10, 64)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid watch_id"})
        }
        watchID = &id
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    alerts, err := h.Repos.Alerts.List(ctx, watchID)
    if err != nil {
        return respondError(c, err)
    }
    out := make([]alertResp, 0, len(alerts))
    for i := range alerts {
        out = append(out, toAlertResp(&alerts[i]))
    }
    return c.JSON(http.StatusOK, out)
}

type confirmReq struct {
    AlertID uint64 `json:"alert_id" validate:"required"`
}

// ConfirmBooking books the offer behind a NEED_CONFIRM alert and returns
// the resolved alert.
func (h *Handler) ConfirmBooking(c echo.Context) error {
    var req confirmReq
    if ok, err := bindAndValidate(c, &req); !ok {
        return err
    }
    alert, err := h.Watcher.ConfirmBooking(c.Request().Context(), req.AlertID)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, toAlertResp(alert))
}

type typicalReq struct {
    Origin        string `query:"origin" validate:"required,len=3,alpha"`
    Destination   string `query:"destination" validate:"required,len=3,alpha"`
    DepartureDate string `query:"departure_date" validate:"required,datetime=2006-01-02"`
}

// TypicalPrice returns the statistics cached by the last tick for a
// route and date.
func (h *Handler) TypicalPrice(c echo.Context) error {
    var req typicalReq
    if ok, err := bindAndValidate(c, &req); !ok {
        return err
    }
    date, _ := time.Parse(dateLayout, req.DepartureDate)
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    tp, err := h.Repos.Typicals.Get(ctx, strings.ToUpper(req.Origin), strings.ToUpper(req.Destination), date)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "origin":         tp.Origin,
        "destination":    tp.Destination,
        "departure_date": tp.DepartureDate.Format(dateLayout),
        "p10":            tp.P10,
        "p25":            tp.P25,
        "p50":            tp.P50,
        "p75":            tp.P75,
        "currency":       tp.Currency,
        "updated_at":     tp.UpdatedAt,
    })
}
