package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"pickup/gamehub/internal/model"
	"pickup/gamehub/internal/repository"
	"pickup/gamehub/internal/testutil"
)

// stubGameRepo fails every call unless a hook is set.
type stubGameRepo struct {
	repository.GameRepository
	listActive func(ctx context.Context, q repository.GameQuery) ([]model.Game, int64, error)
	calls      int
}

func (s *stubGameRepo) ListActive(ctx context.Context, q repository.GameQuery) ([]model.Game, int64, error) {
	s.calls++
	if s.listActive == nil {
		return nil, 0, errors.New("unexpected ListActive call")
	}
	return s.listActive(ctx, q)
}

type stubLocationRepo struct {
	repository.LocationRepository
	ids []uuid.UUID
	err error
}

func (s *stubLocationRepo) FindIDs(context.Context, repository.LocationMatch) ([]uuid.UUID, error) {
	return s.ids, s.err
}

func TestListGamesUtahPagination(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewDirectoryService(repository.NewPGGameRepository(db), repository.NewPGLocationRepository(db))
	ctx := context.Background()

	owner := testutil.CreateUser(t, db)
	park := testutil.CreateLocation(t, db, "Liberty Park", "Salt Lake City", "UT", "US")
	canyon := testutil.CreateLocation(t, db, "Canyon Courts", "Provo", "UT", "US")
	elsewhere := testutil.CreateLocation(t, db, "Cheesman Park", "Denver", "CO", "US")

	base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		loc := park
		if i%2 == 1 {
			loc = canyon
		}
		testutil.CreateGame(t, db, owner.ID, fmt.Sprintf("Utah game %02d", i),
			testutil.WithLocation(loc), testutil.WithCreatedAt(base.Add(time.Duration(i)*time.Minute)))
	}
	for i := 0; i < 5; i++ {
		testutil.CreateGame(t, db, owner.ID, fmt.Sprintf("Denver game %d", i), testutil.WithLocation(elsewhere))
	}

	filter := GameFilter{State: "UT"}
	first, total, err := svc.ListGames(ctx, filter, 1, 10)
	if err != nil {
		t.Fatalf("ListGames(page 1) error = %v", err)
	}
	if len(first) != 10 || total != 15 {
		t.Fatalf("page 1: %d items, total %d; want 10, 15", len(first), total)
	}

	second, total2, err := svc.ListGames(ctx, filter, 2, 10)
	if err != nil {
		t.Fatalf("ListGames(page 2) error = %v", err)
	}
	if len(second) != 5 || total2 != 15 {
		t.Fatalf("page 2: %d items, total %d; want 5, 15", len(second), total2)
	}

	seen := map[uuid.UUID]bool{}
	for _, g := range append(first, second...) {
		if seen[g.ID] {
			t.Errorf("game %s listed twice", g.Title)
		}
		seen[g.ID] = true
		if g.Location == nil || g.Location.State != "UT" {
			t.Errorf("game %s has location %+v, want state UT", g.Title, g.Location)
		}
	}
	if first[0].Title != "Utah game 14" {
		t.Errorf("first item = %q, want newest %q", first[0].Title, "Utah game 14")
	}

	third, total3, err := svc.ListGames(ctx, filter, 3, 10)
	if err != nil {
		t.Fatalf("ListGames(page 3) error = %v", err)
	}
	if len(third) != 0 || total3 != 15 {
		t.Errorf("page 3: %d items, total %d; want 0, 15", len(third), total3)
	}
}

func TestListGamesFilters(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewDirectoryService(repository.NewPGGameRepository(db), repository.NewPGLocationRepository(db))
	ctx := context.Background()

	owner := testutil.CreateUser(t, db)
	slc := testutil.CreateLocation(t, db, "Liberty Park", "Salt Lake City", "UT", "US")
	testutil.CreateGame(t, db, owner.ID, "Morning Hoops", testutil.WithLocation(slc), testutil.WithLevel(model.LevelAdvanced))
	testutil.CreateGame(t, db, owner.ID, "Evening hoops", testutil.WithLocation(slc), testutil.WithLevel(model.LevelBeginner))
	testutil.CreateGame(t, db, owner.ID, "Old hoops", testutil.WithLocation(slc), testutil.Inactive())

	tests := []struct {
		name   string
		filter GameFilter
		want   int64
	}{
		{"no filter", GameFilter{}, 2},
		{"title ignores case", GameFilter{TitleContains: "HOOPS"}, 2},
		{"level", GameFilter{Level: model.LevelAdvanced}, 1},
		{"city and state", GameFilter{City: "Salt Lake City", State: "UT"}, 2},
		{"city and wrong state", GameFilter{City: "Salt Lake City", State: "CO"}, 0},
		{"title and level", GameFilter{TitleContains: "evening", Level: model.LevelAdvanced}, 0},
		{"title matched as typed", GameFilter{TitleContains: "ning hoops"}, 2},
		{"trailing space kept", GameFilter{TitleContains: "hoops "}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			games, total, err := svc.ListGames(ctx, tt.filter, 1, 10)
			if err != nil {
				t.Fatalf("ListGames() error = %v", err)
			}
			if total != tt.want || int64(len(games)) != tt.want {
				t.Errorf("got %d games, total %d; want %d", len(games), total, tt.want)
			}
		})
	}
}

func TestListGamesCountInvariance(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewDirectoryService(repository.NewPGGameRepository(db), repository.NewPGLocationRepository(db))
	ctx := context.Background()

	owner := testutil.CreateUser(t, db)
	for i := 0; i < 7; i++ {
		testutil.CreateGame(t, db, owner.ID, fmt.Sprintf("Game %d", i))
	}

	for _, pageSize := range []int{1, 3, 7, 20} {
		for page := 1; page <= 8; page++ {
			_, total, err := svc.ListGames(ctx, GameFilter{}, page, pageSize)
			if err != nil {
				t.Fatalf("ListGames(%d, %d) error = %v", page, pageSize, err)
			}
			if total != 7 {
				t.Errorf("ListGames(%d, %d) total = %d, want 7", page, pageSize, total)
			}
		}
	}
}

func TestListGamesUnknownLocationSkipsGameQuery(t *testing.T) {
	games := &stubGameRepo{}
	svc := NewDirectoryService(games, &stubLocationRepo{ids: nil})

	items, total, err := svc.ListGames(context.Background(), GameFilter{Country: "Atlantis"}, 1, 10)
	if err != nil {
		t.Fatalf("ListGames() error = %v", err)
	}
	if items == nil || len(items) != 0 || total != 0 {
		t.Errorf("got %v, %d; want empty slice and 0", items, total)
	}
	if games.calls != 0 {
		t.Errorf("game repository called %d times, want 0", games.calls)
	}
}

func TestListGamesRejectsBadPagination(t *testing.T) {
	svc := NewDirectoryService(&stubGameRepo{}, &stubLocationRepo{})

	for _, tc := range []struct{ page, size int }{{0, 10}, {1, 0}, {-1, 10}, {1, -5}} {
		_, _, err := svc.ListGames(context.Background(), GameFilter{}, tc.page, tc.size)
		if !errors.Is(err, ErrInvalidPagination) {
			t.Errorf("ListGames(%d, %d) error = %v, want ErrInvalidPagination", tc.page, tc.size, err)
		}
	}

	_, _, err := svc.ListGames(context.Background(), GameFilter{Level: "Expert"}, 1, 10)
	if !errors.Is(err, ErrValidationFailed) {
		t.Errorf("unknown level error = %v, want ErrValidationFailed", err)
	}
}

func TestListGamesGatewayFailure(t *testing.T) {
	boom := errors.New("connection refused")

	t.Run("game query", func(t *testing.T) {
		games := &stubGameRepo{listActive: func(context.Context, repository.GameQuery) ([]model.Game, int64, error) {
			return nil, 0, boom
		}}
		svc := NewDirectoryService(games, &stubLocationRepo{})
		_, _, err := svc.ListGames(context.Background(), GameFilter{}, 1, 10)
		if !errors.Is(err, ErrDirectoryUnavailable) || !errors.Is(err, boom) {
			t.Errorf("error = %v, want ErrDirectoryUnavailable wrapping the cause", err)
		}
		if games.calls != 1 {
			t.Errorf("calls = %d, want a single attempt", games.calls)
		}
	})

	t.Run("location lookup", func(t *testing.T) {
		svc := NewDirectoryService(&stubGameRepo{}, &stubLocationRepo{err: boom})
		_, _, err := svc.ListGames(context.Background(), GameFilter{State: "UT"}, 1, 10)
		if !errors.Is(err, ErrDirectoryUnavailable) {
			t.Errorf("error = %v, want ErrDirectoryUnavailable", err)
		}
	})
}

func TestListGamesPassesWindow(t *testing.T) {
	var got repository.GameQuery
	games := &stubGameRepo{listActive: func(_ context.Context, q repository.GameQuery) ([]model.Game, int64, error) {
		got = q
		return []model.Game{}, 0, nil
	}}
	ids := []uuid.UUID{uuid.New()}
	svc := NewDirectoryService(games, &stubLocationRepo{ids: ids})

	if _, _, err := svc.ListGames(context.Background(), GameFilter{City: "Ogden", TitleContains: "  run "}, 3, 25); err != nil {
		t.Fatalf("ListGames() error = %v", err)
	}
	if got.Offset != 50 || got.Limit != 25 {
		t.Errorf("window = offset %d limit %d, want 50 and 25", got.Offset, got.Limit)
	}
	if got.TitleContains != "  run " {
		t.Errorf("TitleContains = %q, want %q", got.TitleContains, "  run ")
	}
	if len(got.LocationIDs) != 1 || got.LocationIDs[0] != ids[0] {
		t.Errorf("LocationIDs = %v, want %v", got.LocationIDs, ids)
	}
}

func TestGetGame(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewDirectoryService(repository.NewPGGameRepository(db), repository.NewPGLocationRepository(db))

	owner := testutil.CreateUser(t, db)
	game := testutil.CreateGame(t, db, owner.ID, "Tennis")

	got, err := svc.GetGame(context.Background(), game.ID)
	if err != nil {
		t.Fatalf("GetGame() error = %v", err)
	}
	if got.Title != "Tennis" {
		t.Errorf("Title = %q, want Tennis", got.Title)
	}
	if _, err := svc.GetGame(context.Background(), uuid.New()); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("GetGame(unknown) error = %v, want ErrGameNotFound", err)
	}
}

func TestListLocations(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewDirectoryService(repository.NewPGGameRepository(db), repository.NewPGLocationRepository(db))

	testutil.CreateLocation(t, db, "Rec Center", "Ogden", "UT", "US")
	testutil.CreateLocation(t, db, "Liberty Park", "Salt Lake City", "UT", "US")

	locations, err := svc.ListLocations(context.Background())
	if err != nil {
		t.Fatalf("ListLocations() error = %v", err)
	}
	if len(locations) != 2 || locations[0].Name != "Liberty Park" {
		t.Errorf("locations = %+v, want Liberty Park first", locations)
	}
}
