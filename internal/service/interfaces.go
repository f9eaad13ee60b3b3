package service

import (
	"context"

	"github.com/alexanderramin/planboard/internal/domain"
)

type LibraryService interface {
	List(ctx context.Context, category string) ([]*domain.LibraryTactic, error)
	Get(ctx context.Context, id string) (*domain.LibraryTactic, error)
	Create(ctx context.Context, l *domain.LibraryTactic) error
	Delete(ctx context.Context, id string) error
}
