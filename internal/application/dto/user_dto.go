package dto

import "time"

// RegisterRequest entrada para registro. Role solo admite seller o client; admin se crea con cmd/seed.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=50"`
	Name     string `json:"name" validate:"omitempty,min=2,max=100"`
	Role     string `json:"role" validate:"omitempty,oneof=seller client"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest actualización parcial del perfil propio. El rol no se puede cambiar.
type UpdateProfileRequest struct {
	Email *string `json:"email" validate:"omitempty,email,max=255"`
	Name  *string `json:"name" validate:"omitempty,min=2,max=100"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TokenUser datos que el token vincula al usuario.
type TokenUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// RegisterResponse token emitido más el usuario recién creado.
type RegisterResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// LoginResponse token emitido más la identidad que contiene.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	User        TokenUser `json:"user"`
}
