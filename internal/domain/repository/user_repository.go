package repository

import (
	"context"

	"github.com/jhoicas/Stockeando-api/internal/domain/entity"
)

// UserRepository documento "users".
type UserRepository interface {
	List(ctx context.Context) ([]entity.User, error)
	Save(ctx context.Context, users []entity.User) error
}
