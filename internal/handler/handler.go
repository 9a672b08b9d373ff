package handler

import (
    "errors"
    "net/http"
    "reflect"
    "strconv"
    "strings"

    "github.com/go-playground/validator/v10"
    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"

    "github.com/iliyamo/flight-price-watch/internal/provider"
    "github.com/iliyamo/flight-price-watch/internal/repository"
    "github.com/iliyamo/flight-price-watch/internal/service"
)

func init() {
    // Money is rendered as JSON numbers, e.g. 180.5 rather than "180.5".
    decimal.MarshalJSONWithoutQuotes = true
}

// Handler serves the watch, tick, alert and booking endpoints.
type Handler struct {
    Repos   *repository.Repos
    Watcher *service.Watcher
}

func NewHandler(repos *repository.Repos, w *service.Watcher) *Handler {
    return &Handler{Repos: repos, Watcher: w}
}

// Validator adapts go-playground/validator to echo.Validator.
type Validator struct {
    v *validator.Validate
}

func NewValidator() *Validator {
    v := validator.New(validator.WithRequiredStructEnabled())
    v.RegisterTagNameFunc(func(f reflect.StructField) string {
        for _, tag := range []string{"json", "query"} {
            if name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]; name != "" && name != "-" {
                return name
            }
        }
        return f.Name
    })
    return &Validator{v: v}
}

func (cv *Validator) Validate(i interface{}) error { return cv.v.Struct(i) }

// bindAndValidate binds the request into dst and runs c.Validate.  On
// failure it writes the 400 response itself and returns ok=false.
func bindAndValidate(c echo.Context, dst interface{}) (ok bool, err error) {
    if err := c.Bind(dst); err != nil {
        return false, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if err := c.Validate(dst); err != nil {
        return false, validationError(c, err)
    }
    return true, nil
}

func validationError(c echo.Context, err error) error {
    var verrs validator.ValidationErrors
    if !errors.As(err, &verrs) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    fields := make(map[string]string, len(verrs))
    for _, fe := range verrs {
        rule := fe.Tag()
        if fe.Param() != "" {
            rule += "=" + fe.Param()
        }
        fields[fe.Field()] = rule
    }
    return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": fields})
}

// respondError maps service and repository errors onto HTTP statuses.
// Unknown errors are logged and hidden behind a generic message.
func respondError(c echo.Context, err error) error {
    switch {
    case errors.Is(err, repository.ErrWatchNotFound),
        errors.Is(err, repository.ErrAlertNotFound),
        errors.Is(err, repository.ErrSnapshotNotFound),
        errors.Is(err, repository.ErrTypicalNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
    case errors.Is(err, repository.ErrConflict), errors.Is(err, service.ErrTickInProgress):
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    }
    var perr *provider.Error
    if errors.As(err, &perr) {
        c.Logger().Errorf("provider error: %v", err)
        return c.JSON(http.StatusBadGateway, echo.Map{"error": "provider " + perr.Provider + " failed"})
    }
    c.Logger().Errorf("request failed: %v", err)
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

func parseID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, false
    }
    return id, true
}
