package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/repository"
	"github.com/alexanderramin/planboard/internal/testutil"
)

func newLibraryService(t *testing.T, observers ...UseCaseObserver) LibraryService {
	t.Helper()
	return NewLibraryService(repository.NewSQLiteLibraryRepo(testutil.NewTestDB(t)), observers...)
}

func TestLibraryService_ListSeededTemplates(t *testing.T) {
	svc := newLibraryService(t)
	ctx := context.Background()

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 6)

	seo, err := svc.List(ctx, " SEO ")
	require.NoError(t, err)
	require.Len(t, seo, 1)
	assert.Equal(t, "lib-seo-audit", seo[0].ID)

	_, err = svc.List(ctx, "astrology")
	assert.Error(t, err)
}

func TestLibraryService_CreateDefaultsAndRoundtrip(t *testing.T) {
	svc := newLibraryService(t)
	ctx := context.Background()

	l := &domain.LibraryTactic{Title: "  Influencer kit ", DefaultBudget: 750}
	require.NoError(t, svc.Create(ctx, l))
	assert.NotEmpty(t, l.ID)
	assert.Equal(t, "general", l.Category)

	got, err := svc.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "Influencer kit", got.Title)
	assert.Equal(t, 750.0, got.DefaultBudget)
}

func TestLibraryService_CreateRejectsInvalid(t *testing.T) {
	svc := newLibraryService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   domain.LibraryTactic
	}{
		{"blank title", domain.LibraryTactic{Title: "   "}},
		{"negative budget", domain.LibraryTactic{Title: "x", DefaultBudget: -1}},
		{"unknown category", domain.LibraryTactic{Title: "x", Category: "astrology"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			assert.Error(t, svc.Create(ctx, &in))
		})
	}
}

func TestLibraryService_DeleteMissing(t *testing.T) {
	svc := newLibraryService(t)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "lib-webinar"))
	assert.ErrorIs(t, svc.Delete(ctx, "lib-webinar"), repository.ErrNotFound)
}

func TestLibraryService_ObservesUseCases(t *testing.T) {
	var buf bytes.Buffer
	svc := newLibraryService(t, NewTextUseCaseObserver(&buf))

	l := testutil.NewTestLibraryTactic("Press release", testutil.WithCategory("content"))
	require.NoError(t, svc.Create(context.Background(), l))
	_ = svc.Delete(context.Background(), "nope")

	out := buf.String()
	assert.Contains(t, out, "use_case=library-create")
	assert.Contains(t, out, "success=true")
	assert.Contains(t, out, "use_case=library-delete")
	assert.Contains(t, out, "success=false")
}
