package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/marketplace-api/internal/application/dto"
	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
	"github.com/jhoicas/marketplace-api/pkg/jwt"
	"github.com/jhoicas/marketplace-api/pkg/logger"
)

// AuthUseCase casos de uso de identidad: registro, login y autenticación por token.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
	log    *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(users repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{users: users, hasher: hasher, tokens: tokens, log: log.Named("auth")}
}

// Register crea un usuario y emite su token. Devuelve ErrEmailAlreadyExists si el email ya existe.
// Cualquier otro fallo de almacenamiento se reporta como error interno.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error) {
	email := entity.NormalizeEmail(in.Email)
	existing, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error al registrar usuario: %w", err)
	}
	if existing != nil {
		uc.log.Debug().Str("email", email).Msg("registro rechazado: email duplicado")
		return nil, domain.ErrEmailAlreadyExists
	}

	role := in.Role
	if role == "" {
		role = entity.RoleClient
	}
	if role != entity.RoleClient && role != entity.RoleSeller {
		return nil, fmt.Errorf("%w: rol %q no permitido en el registro", domain.ErrInvalidInput, role)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error al registrar usuario: %w", err)
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		uc.log.Error().Err(err).Msg("error persistiendo usuario")
		return nil, fmt.Errorf("error al registrar usuario: %w", err)
	}

	token, err := uc.issue(user)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("usuario registrado")
	return &dto.RegisterResponse{AccessToken: token, User: *ToUserResponse(user)}, nil
}

// ValidateCredentials devuelve ErrUserNotFound si el email no existe,
// (nil, nil) si la contraseña no coincide y el usuario si coincide.
func (uc *AuthUseCase) ValidateCredentials(ctx context.Context, email, password string) (*entity.User, error) {
	user, err := uc.users.GetByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	ok, err := uc.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return user, nil
}

// Login verifica email/password, genera JWT y retorna token + identidad.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.ValidateCredentials(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		uc.log.Debug().Msg("login rechazado: credenciales inválidas")
		return nil, domain.ErrInvalidCredentials
	}
	token, err := uc.issue(user)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken: token,
		User:        dto.TokenUser{ID: user.ID, Email: user.Email, Name: user.Name},
	}, nil
}

// Authenticate verifica el token y recarga el usuario, de modo que se usa su rol actual.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	id, err := uc.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	user, err := uc.users.GetByID(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidToken
	}
	return user, nil
}

func (uc *AuthUseCase) issue(u *entity.User) (string, error) {
	token, err := uc.tokens.Issue(jwt.Identity{UserID: u.ID, Email: u.Email, Name: u.Name})
	if err != nil {
		return "", fmt.Errorf("error emitiendo token: %w", err)
	}
	return token, nil
}

// ToUserResponse proyecta los campos públicos del usuario.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
