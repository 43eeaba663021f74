package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Stockeando-api/internal/application/dto"
	"github.com/jhoicas/Stockeando-api/internal/domain"
	"github.com/jhoicas/Stockeando-api/internal/domain/entity"
	"github.com/jhoicas/Stockeando-api/internal/domain/repository"
	"github.com/jhoicas/Stockeando-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login y usuario inicial.
type AuthUseCase struct {
	users  repository.UserRepository
	jwtCfg JWTConfig
	log    zerolog.Logger
	now    func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(users repository.UserRepository, jwtCfg JWTConfig, log zerolog.Logger) *AuthUseCase {
	return &AuthUseCase{users: users, jwtCfg: jwtCfg, log: log, now: time.Now}
}

// RegisterUser crea un usuario con la contraseña hasheada con bcrypt.
// Devuelve ErrConflict si el username ya existe.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: usuario y contraseña son obligatorios", domain.ErrInvalidInput)
	}
	users, err := uc.users.List(ctx)
	if err != nil {
		return nil, err
	}
	if findUser(users, username) != nil {
		return nil, fmt.Errorf("%w: el usuario %q ya existe", domain.ErrConflict, username)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	name := in.Name
	if name == "" {
		name = username
	}
	role := in.Role
	if role == "" {
		role = entity.RoleOperario
	}
	user := entity.User{
		Username:     username,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		CreatedAt:    uc.now().UTC(),
	}
	if err := uc.users.Save(ctx, append(users, user)); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica usuario/contraseña, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	users, err := uc.users.List(ctx)
	if err != nil {
		return nil, err
	}
	user := findUser(users, strings.TrimSpace(in.Username))
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.Username, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(*user),
	}, nil
}

// ListUsers devuelve los usuarios sin sus hashes.
func (uc *AuthUseCase) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *toUserResponse(u))
	}
	return out, nil
}

// EnsureAdmin crea el administrador inicial solo cuando no existe ningún usuario.
// Devuelve true si lo creó.
func (uc *AuthUseCase) EnsureAdmin(ctx context.Context, username, password, name string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}
	users, err := uc.users.List(ctx)
	if err != nil {
		return false, err
	}
	if len(users) > 0 {
		return false, nil
	}
	if _, err := uc.RegisterUser(ctx, dto.RegisterRequest{
		Username: username,
		Password: password,
		Name:     name,
		Role:     entity.RoleAdmin,
	}); err != nil {
		return false, err
	}
	uc.log.Info().Str("username", username).Msg("usuario administrador inicial creado")
	return true, nil
}

func findUser(users []entity.User, username string) *entity.User {
	for i := range users {
		if strings.EqualFold(users[i].Username, username) {
			return &users[i]
		}
	}
	return nil
}

func toUserResponse(u entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		Username:  u.Username,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
