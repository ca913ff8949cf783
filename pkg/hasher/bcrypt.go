package hasher

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt hash de contraseñas de una vía con sal (bcrypt) y costo configurable.
type Bcrypt struct {
	cost int
}

// NewBcrypt construye el hasher; un costo fuera de rango usa bcrypt.DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// Hash devuelve el hash bcrypt de la contraseña en texto plano.
func (b *Bcrypt) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify compara la contraseña con el hash. Un hash corrupto es error; una contraseña distinta no.
func (b *Bcrypt) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

// Cost costo efectivo.
func (b *Bcrypt) Cost() int { return b.cost }
