package jsonstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/user/leadgen-service/internal/entity"
	"github.com/user/leadgen-service/internal/repository"
)

func newRepo(t *testing.T) *BusinessRepoImpl {
	t.Helper()
	return NewBusinessRepo(filepath.Join(t.TempDir(), "businesses.json"))
}

func TestSaveAndList(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	saved, err := repo.Save(ctx, &entity.Business{Name: "Panadería La Espiga", Phone: "11 4123-4567"}, "Panaderías CABA")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !saved {
		t.Fatal("Save() = false for a new record")
	}

	listed, err := repo.List(ctx, repository.BusinessFilter{Keyword: "panaderías caba"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("List() returned %d records, want 1", len(listed))
	}
	if listed[0].ID == "" {
		t.Error("stored record has no ID")
	}
	if listed[0].SearchKeyword != "panaderías caba" {
		t.Errorf("SearchKeyword = %q, want normalized keyword", listed[0].SearchKeyword)
	}
}

func TestSaveRejectsDuplicateIdentity(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	b := &entity.Business{Name: "Ferretería El Tornillo", Phone: "0385 421-4413", Website: "https://tornillo.com.ar"}
	if saved, _ := repo.Save(ctx, b, "ferreterias"); !saved {
		t.Fatal("first Save() = false")
	}

	dup := &entity.Business{Name: "FERRETERÍA EL TORNILLO", Phone: "0385 421-4413", Website: "HTTPS://TORNILLO.COM.AR"}
	saved, err := repo.Save(ctx, dup, "ferreterias")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved {
		t.Error("Save() = true for a case-variant duplicate")
	}
}

func TestMarkContactedAndStats(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	repo.Save(ctx, &entity.Business{Name: "A"}, "kw")
	repo.Save(ctx, &entity.Business{Name: "B"}, "kw")

	listed, _ := repo.List(ctx, repository.BusinessFilter{})
	if err := repo.MarkContacted(ctx, listed[0].ID, true); err != nil {
		t.Fatalf("MarkContacted() error = %v", err)
	}

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalBusinesses != 2 || stats.Contacted != 1 || stats.NotContacted != 1 {
		t.Errorf("Stats() = %+v", stats)
	}
	if len(stats.Keywords) != 1 || stats.Keywords[0].Count != 2 {
		t.Errorf("Keywords = %+v", stats.Keywords)
	}

	if err := repo.MarkContacted(ctx, "missing-id", true); err == nil {
		t.Error("MarkContacted() accepted an unknown ID")
	}
}

func TestListFilters(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	repo.Save(ctx, &entity.Business{Name: "A"}, "uno")
	repo.Save(ctx, &entity.Business{Name: "B"}, "dos")
	repo.Save(ctx, &entity.Business{Name: "C"}, "dos")

	contacted := false
	listed, err := repo.List(ctx, repository.BusinessFilter{Keyword: "dos", Contacted: &contacted, Limit: 1})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(listed) != 1 || listed[0].Name != "C" {
		t.Errorf("List() = %v, want newest matching record only", listed)
	}
}
