package auth

import "github.com/jhoicas/marketplace-api/pkg/jwt"

// PasswordHasher primitiva de hash de una vía con verificación.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
}

// TokenIssuer emite y verifica credenciales firmadas.
type TokenIssuer interface {
	Issue(id jwt.Identity) (string, error)
	Verify(token string) (jwt.Identity, error)
}
