package memory

import (
	"context"

	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

// UserRepository implementación en memoria de repository.UserRepository.
type UserRepository struct {
	s *Store
}

var _ repository.UserRepository = (*UserRepository)(nil)

// Create inserta el usuario; ErrEmailAlreadyExists si el email ya está tomado.
func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	email := entity.NormalizeEmail(u.Email)
	if _, taken := r.s.emailIndex[email]; taken {
		return domain.ErrEmailAlreadyExists
	}
	if _, taken := r.s.users[u.ID]; taken {
		return domain.ErrConflict
	}
	stored := *u
	stored.Email = email
	r.s.users[u.ID] = stored
	r.s.emailIndex[email] = u.ID
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// GetByEmail busca por email sin distinguir mayúsculas.
func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.emailIndex[entity.NormalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	u := r.s.users[id]
	return &u, nil
}

// Update reemplaza email, nombre y password; el rol y la fecha de creación se conservan.
func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.users[u.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	oldEmail := entity.NormalizeEmail(current.Email)
	newEmail := entity.NormalizeEmail(u.Email)
	if newEmail != oldEmail {
		if _, taken := r.s.emailIndex[newEmail]; taken {
			return domain.ErrEmailAlreadyExists
		}
		delete(r.s.emailIndex, oldEmail)
		r.s.emailIndex[newEmail] = u.ID
	}
	current.Email = newEmail
	current.Name = u.Name
	current.PasswordHash = u.PasswordHash
	current.UpdatedAt = u.UpdatedAt
	r.s.users[u.ID] = current
	return nil
}
