package handler

import (
    "context"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"

    "github.com/iliyamo/flight-price-watch/internal/model"
)

type createWatchReq struct {
    Origin        string              `json:"origin" validate:"required,len=3,alpha"`
    Destination   string              `json:"destination" validate:"required,len=3,alpha"`
    DepartureDate string              `json:"departure_date" validate:"required,datetime=2006-01-02"`
    Pax           *int                `json:"pax" validate:"omitempty,min=1,max=9"`
    Cabin         string              `json:"cabin" validate:"omitempty,oneof=ECONOMY PREMIUM_ECONOMY BUSINESS FIRST"`
    AutoBookPrice decimal.NullDecimal `json:"auto_book_price"`
    ConfirmPrice  decimal.NullDecimal `json:"confirm_price"`
    Currency      string              `json:"currency" validate:"omitempty,len=3,alpha"`
}

// normalize upper-cases the airport codes and fills defaults before
// validation.  Cabin and currency are kept as submitted.
func (r *createWatchReq) normalize() {
    r.Origin = strings.ToUpper(strings.TrimSpace(r.Origin))
    r.Destination = strings.ToUpper(strings.TrimSpace(r.Destination))
    if r.Cabin == "" {
        r.Cabin = model.CabinEconomy
    }
    if r.Currency == "" {
        r.Currency = "USD"
    }
    if r.Pax == nil {
        one := 1
        r.Pax = &one
    }
}

// maxPrice is the first value a DECIMAL(12,2) column cannot hold.
var maxPrice = decimal.New(1, 10)

// checkPrice returns the failed rule for a threshold, or "" when it is
// absent or storable as is.
func checkPrice(p decimal.NullDecimal) string {
    switch {
    case !p.Valid:
        return ""
    case !p.Decimal.IsPositive():
        return "gt=0"
    case !p.Decimal.Equal(p.Decimal.Truncate(2)):
        return "max_decimals=2"
    case p.Decimal.GreaterThanOrEqual(maxPrice):
        return "lt=10000000000"
    }
    return ""
}

// CreateWatch stores a new watch and returns it with its ID.
func (h *Handler) CreateWatch(c echo.Context) error {
    var req createWatchReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.normalize()
    if err := c.Validate(&req); err != nil {
        return validationError(c, err)
    }
    for name, p := range map[string]decimal.NullDecimal{"auto_book_price": req.AutoBookPrice, "confirm_price": req.ConfirmPrice} {
        if rule := checkPrice(p); rule != "" {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": echo.Map{name: rule}})
        }
    }
    dep, _ := time.Parse(dateLayout, req.DepartureDate) // checked by the datetime rule

    w := &model.Watch{
        Origin:        req.Origin,
        Destination:   req.Destination,
        DepartureDate: dep,
        Pax:           *req.Pax,
        Cabin:         req.Cabin,
        AutoBookPrice: req.AutoBookPrice,
        ConfirmPrice:  req.ConfirmPrice,
        Currency:      req.Currency,
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    if err := h.Repos.Watches.Create(ctx, w); err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusCreated, toWatchResp(w))
}

// ListWatches returns every watch, newest first.
func (h *Handler) ListWatches(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    ws, err := h.Repos.Watches.List(ctx)
    if err != nil {
        return respondError(c, err)
    }
    out := make([]watchResp, 0, len(ws))
    for i := range ws {
        out = append(out, toWatchResp(&ws[i]))
    }
    return c.JSON(http.StatusOK, out)
}

func (h *Handler) GetWatch(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    w, err := h.Repos.Watches.GetByID(ctx, id)
    if err != nil {
        return respondError(c, err)
    }
    return c.JSON(http.StatusOK, toWatchResp(w))
}

// DeleteWatch removes a watch together with its snapshots, alerts and
// orders.
func (h *Handler) DeleteWatch(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    if err := h.Repos.Watches.Delete(ctx, id); err != nil {
        return respondError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListSnapshots(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    if _, err := h.Repos.Watches.GetByID(ctx, id); err != nil {
        return respondError(c, err)
    }
    snaps, err := h.Repos.Snapshots.ListByWatch(ctx, id)
    if err != nil {
        return respondError(c, err)
    }
    out := make([]snapshotResp, 0, len(snaps))
    for i := range snaps {
        out = append(out, toSnapshotResp(&snaps[i]))
    }
    return c.JSON(http.StatusOK, out)
}

func (h *Handler) ListOrders(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    if _, err := h.Repos.Watches.GetByID(ctx, id); err != nil {
        return respondError(c, err)
    }
    orders, err := h.Repos.Orders.ListByWatch(ctx, id)
    if err != nil {
        return respondError(c, err)
    }
    out := make([]orderResp, 0, len(orders))
    for i := range orders {
        out = append(out, toOrderResp(&orders[i]))
    }
    return c.JSON(http.StatusOK, out)
}
