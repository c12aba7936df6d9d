package ports

import (
	"context"

	"github.com/veritrace/provenance/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password, email, account string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}
