package http

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/obras-api/internal/application/auth"
	"github.com/jhoicas/obras-api/internal/application/dto"
	"github.com/jhoicas/obras-api/internal/domain"
)

// RateLimiter contador de ventana fija. Lo implementa *redis.Client.
type RateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// LoginLimit límite de intentos de login por IP y por email.
type LoginLimit struct {
	Limiter RateLimiter // nil deshabilita el límite
	Limit   int64
	Window  time.Duration
}

// CookieConfig cookie que transporta el token de sesión.
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler maneja login, logout e identidad actual.
type AuthHandler struct {
	uc     *auth.AuthUseCase
	cookie CookieConfig
	limit  LoginLimit
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, cookie CookieConfig, limit LoginLimit) *AuthHandler {
	return &AuthHandler{uc: uc, cookie: cookie, limit: limit}
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Verifica credenciales, entrega el token en una cookie HttpOnly y en el cuerpo.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	if err := h.allow(c, in.Email); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    out.Token,
		Path:     "/",
		Expires:  out.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(out)
}

// allow cuenta el intento por IP y por email. Si Redis falla se deja pasar.
func (h *AuthHandler) allow(c *fiber.Ctx, email string) error {
	if h.limit.Limiter == nil {
		return nil
	}
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	scopes := []string{
		"login:ip:" + c.IP(),
		"login:email:" + hex.EncodeToString(sum[:]),
	}
	for _, scope := range scopes {
		ok, _, err := h.limit.Limiter.FixedWindowAllow(c.UserContext(), scope, h.limit.Limit, h.limit.Window)
		if err != nil {
			log.Warn().Err(err).Str("scope", scope).Msg("rate limit de login no disponible")
			return nil
		}
		if !ok {
			return domain.ErrRateLimited
		}
	}
	return nil
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Security     Cookie
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Logout(c.UserContext(), actor.UserID); err != nil {
		return writeError(c, err)
	}
	c.ClearCookie(h.cookie.Name)
	return c.JSON(dto.MessageResponse{Message: "sesión cerrada"})
}

// Me godoc
// @Summary      Identidad actual
// @Tags         auth
// @Security     Cookie
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Me(c.UserContext(), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
