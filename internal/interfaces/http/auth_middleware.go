package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/obras-api/internal/domain"
	"github.com/jhoicas/obras-api/internal/domain/authz"
	"github.com/jhoicas/obras-api/pkg/jwt"
)

// Locals keys de la sesión en Fiber.
const (
	LocalActor  = "actor"
	LocalUserID = "user_id"
)

// SessionExpirer cierra la sesión de un usuario cuyo token expiró.
// Lo implementa *auth.AuthUseCase.
type SessionExpirer interface {
	ExpireSession(ctx context.Context, userID string) error
}

// AuthConfig parámetros del middleware de sesión.
type AuthConfig struct {
	Secret     string
	CookieName string
	// Expirer opcional: con token expirado el usuario deja de figurar en línea.
	Expirer SessionExpirer
}

// AuthMiddleware valida el token de sesión (cookie, o Authorization: Bearer como
// alternativa) y deja el authz.Actor en c.Locals. Distingue token ausente,
// inválido y expirado para que el cliente decida si redirige al login.
func AuthMiddleware(cfg AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := tokenFrom(c, cfg.CookieName)
		if err != nil {
			return writeError(c, err)
		}
		claims, err := jwt.Parse(cfg.Secret, tokenString)
		if err != nil {
			if errors.Is(err, domain.ErrTokenExpired) {
				expireSession(c, cfg, claims)
			}
			return writeError(c, err)
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalActor, authz.Actor{
			UserID:   claims.UserID,
			Role:     claims.Role,
			Projects: claims.Projects,
		})
		return c.Next()
	}
}

func tokenFrom(c *fiber.Ctx, cookieName string) (string, error) {
	if cookieName != "" {
		if v := strings.TrimSpace(c.Cookies(cookieName)); v != "" {
			return v, nil
		}
	}
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", domain.ErrTokenMissing
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", domain.ErrTokenInvalid
	}
	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return "", domain.ErrTokenMissing
	}
	return tokenString, nil
}

func expireSession(c *fiber.Ctx, cfg AuthConfig, claims *jwt.Claims) {
	if cfg.CookieName != "" {
		c.ClearCookie(cfg.CookieName)
	}
	if cfg.Expirer == nil || claims == nil || claims.UserID == "" {
		return
	}
	if err := cfg.Expirer.ExpireSession(c.UserContext(), claims.UserID); err != nil {
		log.Warn().Err(err).Str("user_id", claims.UserID).Msg("no se pudo cerrar la sesión expirada")
	}
}

// GetActor devuelve el actor de la sesión (después de AuthMiddleware).
func GetActor(c *fiber.Ctx) (authz.Actor, bool) {
	actor, ok := c.Locals(LocalActor).(authz.Actor)
	return actor, ok
}

// GetUserID devuelve el UserID de la sesión o "".
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// RequirePermission corta con 403 si el rol de la sesión no tiene p.
// Debe usarse DESPUÉS de AuthMiddleware.
func RequirePermission(p authz.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := GetActor(c)
		if !ok {
			return writeError(c, domain.ErrTokenMissing)
		}
		if err := actor.Authorize(p); err != nil {
			return writeError(c, err)
		}
		return c.Next()
	}
}

// actorOf actor de la sesión; sin él la petición no pasó por AuthMiddleware.
func actorOf(c *fiber.Ctx) (authz.Actor, error) {
	actor, ok := GetActor(c)
	if !ok {
		return authz.Actor{}, domain.ErrTokenMissing
	}
	return actor, nil
}
