package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/repository"
)

type libraryService struct {
	library  repository.LibraryRepo
	observer UseCaseObserver
}

func NewLibraryService(library repository.LibraryRepo, observers ...UseCaseObserver) LibraryService {
	return &libraryService{library: library, observer: firstObserver(observers...)}
}

func (s *libraryService) List(ctx context.Context, category string) ([]*domain.LibraryTactic, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if category != "" && !domain.ValidLibraryCategories[category] {
		return nil, &domain.ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %q", category)}
	}
	return s.library.List(ctx, category)
}

func (s *libraryService) Get(ctx context.Context, id string) (*domain.LibraryTactic, error) {
	return s.library.GetByID(ctx, id)
}

func (s *libraryService) Create(ctx context.Context, l *domain.LibraryTactic) (err error) {
	defer track(ctx, s.observer, "library-create", map[string]any{"title": l.Title})(&err)

	l.Title = strings.TrimSpace(l.Title)
	l.Category = strings.ToLower(strings.TrimSpace(l.Category))
	if err = l.Validate(); err != nil {
		return err
	}
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	l.Category = domain.CoalesceCategory(l.Category)
	l.CreatedAt = time.Now().UTC()
	return s.library.Create(ctx, l)
}

func (s *libraryService) Delete(ctx context.Context, id string) (err error) {
	defer track(ctx, s.observer, "library-delete", map[string]any{"id": id})(&err)
	return s.library.Delete(ctx, id)
}
