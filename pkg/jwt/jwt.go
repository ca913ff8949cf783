package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity datos que el token vincula: el usuario autenticado.
type Identity struct {
	UserID string `json:"sub"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// Claims incluye los claims estándar JWT más la identidad. Subject = UserID.
// El rol no viaja en el token: se relee del usuario al autenticar.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Generate genera un token HS256 firmado para la identidad.
func Generate(secret string, id Identity, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", errors.New("jwt: secret vacío")
	}
	if id.UserID == "" {
		return "", errors.New("jwt: user id vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		Email: id.Email,
		Name:  id.Name,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma, expiración y emisor, y devuelve la identidad.
// issuer vacío omite la verificación del emisor.
func Parse(secret, issuer, tokenString string) (Identity, error) {
	if secret == "" {
		return Identity{}, errors.New("jwt: secret vacío")
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return Identity{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return Identity{}, errors.New("claims inválidos")
	}
	return Identity{UserID: claims.Subject, Email: claims.Email, Name: claims.Name}, nil
}

// Manager emite y verifica tokens con una configuración fija.
type Manager struct {
	secret     string
	issuer     string
	expMinutes int
}

// NewManager construye el emisor/verificador de tokens.
func NewManager(secret, issuer string, expMinutes int) *Manager {
	return &Manager{secret: secret, issuer: issuer, expMinutes: expMinutes}
}

// Issue firma un token para la identidad.
func (m *Manager) Issue(id Identity) (string, error) {
	return Generate(m.secret, id, m.issuer, m.expMinutes)
}

// Verify valida el token y devuelve la identidad.
func (m *Manager) Verify(token string) (Identity, error) {
	return Parse(m.secret, m.issuer, token)
}
