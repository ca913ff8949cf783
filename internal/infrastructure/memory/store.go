// Package memory implementa los puertos de persistencia en memoria de proceso.
// Se usa en tests y con STORAGE_DRIVER=memory; los datos se pierden al reiniciar.
package memory

import (
	"sync"

	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// Store guarda usuarios y productos protegidos por un único RWMutex.
// Los índices de email y SKU hacen atómica la verificación de unicidad con la escritura,
// igual que una restricción UNIQUE en PostgreSQL.
type Store struct {
	mu sync.RWMutex

	users    map[string]entity.User
	products map[string]entity.Product

	emailIndex map[string]string // email normalizado -> user id
	skuIndex   map[string]string // sku normalizado -> product id
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		users:      make(map[string]entity.User),
		products:   make(map[string]entity.Product),
		emailIndex: make(map[string]string),
		skuIndex:   make(map[string]string),
	}
}

// Users devuelve el repositorio de usuarios sobre este almacén.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Products devuelve el repositorio de productos sobre este almacén.
func (s *Store) Products() *ProductRepository { return &ProductRepository{s: s} }

// withSeller copia el producto y adjunta una copia de su vendedor. Requiere el lock tomado.
func (s *Store) withSeller(p entity.Product) *entity.Product {
	if u, ok := s.users[p.SellerID]; ok {
		p.Seller = &u
	} else {
		p.Seller = nil
	}
	return &p
}
