package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/flight-price-watch/internal/config"
    "github.com/iliyamo/flight-price-watch/internal/utils"
)

// AuthHandler issues operator access tokens.
type AuthHandler struct {
    Cfg config.Config
}

func NewAuthHandler(cfg config.Config) *AuthHandler { return &AuthHandler{Cfg: cfg} }

type tokenReq struct {
    Password string `json:"password" validate:"required"`
}

type tokenResp struct {
    Token   string `json:"token"`
    Expires string `json:"expires"`
}

// Token exchanges the operator password for a bearer token.  It answers
// 404 when the server runs without JWT_SECRET, since no token is needed.
func (h *AuthHandler) Token(c echo.Context) error {
    if h.Cfg.JWTSecret == "" {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "authentication disabled"})
    }
    var req tokenReq
    if ok, err := bindAndValidate(c, &req); !ok {
        return err
    }
    if !utils.VerifyPassword(h.Cfg.OperatorPasswordHash, req.Password) {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
    }
    tok, err := utils.NewAccessToken(h.Cfg.JWTSecret, "operator", utils.RoleOperator, h.Cfg.AccessTTLMin)
    if err != nil {
        c.Logger().Errorf("issue token: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
    }
    return c.JSON(http.StatusOK, tokenResp{Token: tok.Token, Expires: tok.Exp.Format(time.RFC3339)})
}
