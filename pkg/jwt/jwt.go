package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jhoicas/obras-api/internal/domain"
)

// Claims incluye los claims estándar JWT más la identidad del personal.
// Projects viaja en el token para que el middleware filtre por proyecto sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string   `json:"user_id"`
	Role     string   `json:"role"`
	Projects []string `json:"projects"`
}

// Options parámetros de emisión.
type Options struct {
	Secret     string
	Issuer     string
	ExpMinutes int
}

// Generate firma un token con la identidad indicada y devuelve también su expiración.
func Generate(opts Options, userID, role string, projects []string) (string, time.Time, error) {
	if opts.Secret == "" {
		return "", time.Time{}, fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	exp := now.Add(time.Duration(opts.ExpMinutes) * time.Minute)
	if projects == nil {
		projects = []string{}
	}
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    opts.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID:   userID,
		Role:     role,
		Projects: projects,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(opts.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse valida firma y expiración. Los errores se traducen a domain.ErrTokenExpired
// o domain.ErrTokenInvalid. Con un token expirado pero bien firmado devuelve también
// los claims, para que el caller pueda cerrar la sesión de ese usuario.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		// La firma se verifica antes que los claims temporales
		return claims, fmt.Errorf("%w: %v", domain.ErrTokenExpired, err)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	case !token.Valid || claims.UserID == "" || claims.Role == "":
		return nil, fmt.Errorf("%w: claims incompletos", domain.ErrTokenInvalid)
	}
	return claims, nil
}
