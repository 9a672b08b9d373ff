package router

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-price-watch/internal/config"
	"github.com/iliyamo/flight-price-watch/internal/handler"
	"github.com/iliyamo/flight-price-watch/internal/provider"
	"github.com/iliyamo/flight-price-watch/internal/repository"
	"github.com/iliyamo/flight-price-watch/internal/service"
	"github.com/iliyamo/flight-price-watch/internal/utils"
)

func newServer(t *testing.T, cfg config.Config) (*echo.Echo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	m := provider.NewMock(1)
	repos := repository.New(db)
	w := service.NewWatcher(repos, provider.Set{Typical: m, Offers: m, Booking: m})
	e := echo.New()
	e.Validator = handler.NewValidator()
	RegisterRoutes(e, db, nil)
	RegisterAPI(e, cfg, handler.NewHandler(repos, w), handler.NewAuthHandler(cfg), nil)
	return e, mock
}

func get(e *echo.Echo, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestProtectedAPI(t *testing.T) {
	cfg := config.Config{JWTSecret: "secret", AccessTTLMin: 5}
	e, mock := newServer(t, cfg)

	if rec := get(e, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("healthz: %d", rec.Code)
	}
	if rec := get(e, "/v1/watches", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("watches without token: %d", rec.Code)
	}

	tok, err := utils.NewAccessToken("secret", "operator", utils.RoleOperator, 5)
	if err != nil {
		t.Fatal(err)
	}
	mock.ExpectQuery(regexp.QuoteMeta("FROM watches ORDER BY id DESC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "origin", "destination", "departure_date", "pax", "cabin", "auto_book_price", "confirm_price", "currency", "created_at"}).
			AddRow(1, "SFO", "JFK", time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), 1, "ECONOMY", nil, nil, "USD", time.Now()))
	if rec := get(e, "/v1/watches", tok.Token); rec.Code != http.StatusOK {
		t.Fatalf("watches with token: %d %s", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestOpenAPIWithoutSecret(t *testing.T) {
	e, mock := newServer(t, config.Config{})
	mock.ExpectQuery(regexp.QuoteMeta("FROM alerts ORDER BY id DESC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "watch_id", "kind", "message", "snapshot_id", "resolved", "created_at"}))
	rec := get(e, "/v1/alerts", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "[]\n" {
		t.Fatalf("alerts: %d %q", rec.Code, rec.Body.String())
	}
	if rec := get(e, "/metrics", ""); rec.Code != http.StatusOK {
		t.Fatalf("metrics: %d", rec.Code)
	}
}
