package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/memory"
	basecache "github.com/riskibarqy/fantasy-cricket/internal/platform/cache"
)

func TestTeamRepository_GetByKeyCachesLookups(t *testing.T) {
	next := memory.NewTeamRepository(team.Team{ID: "t-1", Name: "Chennai Super Kings", NameKey: "chennaisuperkings"})
	repo := NewTeamRepository(next, basecache.NewStore(time.Minute))
	ctx := context.Background()

	first, found, err := repo.GetByKey(ctx, "chennaisuperkings")
	if err != nil || !found {
		t.Fatalf("unexpected lookup result: found=%v err=%v", found, err)
	}

	// Mutate the backing store directly; the cached copy should still be served.
	if _, err := next.Upsert(ctx, team.Team{ID: "t-1", NameKey: "chennaisuperkings", LogoURL: "https://img.example/csk.png"}); err != nil {
		t.Fatalf("seed upsert failed: %v", err)
	}
	cached, found, err := repo.GetByKey(ctx, "chennaisuperkings")
	if err != nil || !found {
		t.Fatalf("unexpected cached lookup: found=%v err=%v", found, err)
	}
	if cached.LogoURL != first.LogoURL {
		t.Fatalf("expected cached logo %q, got %q", first.LogoURL, cached.LogoURL)
	}
}

func TestTeamRepository_UpsertInvalidatesKey(t *testing.T) {
	next := memory.NewTeamRepository()
	repo := NewTeamRepository(next, basecache.NewStore(time.Minute))
	ctx := context.Background()

	if _, found, err := repo.GetByKey(ctx, "mumbaiindians"); err != nil || found {
		t.Fatalf("expected miss before create: found=%v err=%v", found, err)
	}

	created, err := repo.Upsert(ctx, team.Team{ID: "t-2", Name: "Mumbai Indians", NameKey: "mumbaiindians"})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	got, found, err := repo.GetByKey(ctx, "mumbaiindians")
	if err != nil || !found {
		t.Fatalf("expected hit after create: found=%v err=%v", found, err)
	}
	if got.ID != created.ID {
		t.Fatalf("expected id %q, got %q", created.ID, got.ID)
	}
}
