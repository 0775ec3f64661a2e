package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pickup/gamehub/internal/config"
	"pickup/gamehub/internal/repository"
	"pickup/gamehub/internal/service"
	"pickup/gamehub/internal/testutil"
	jwtpkg "pickup/gamehub/pkg/jwt"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testAPI struct {
	t      *testing.T
	router *gin.Engine
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	logger := zap.NewNop()
	cfg := &config.Config{
		Server:    config.ServerConfig{RequestTimeout: 5 * time.Second},
		Directory: config.DirectoryConfig{DefaultPageSize: 10, MaxPageSize: 50},
	}

	store := repository.NewMemoryStateStore()
	userRepo := repository.NewPGUserRepository(db)
	identityRepo := repository.NewPGIdentityRepository(db)
	profileRepo := repository.NewPGProfileRepository(db)
	accountRepo := repository.NewPGAccountRepository(db)
	locationRepo := repository.NewPGLocationRepository(db)
	gameRepo := repository.NewPGGameRepository(db)
	attendeeRepo := repository.NewPGAttendeeRepository(db)
	jwtManager := jwtpkg.NewManager("handler-test-key", "gamehub-test", time.Minute, time.Hour)
	mailer, _ := service.NewMailSender(config.SMTPConfig{}, logger)

	authService := service.NewAuthService(userRepo, identityRepo, profileRepo, accountRepo, store, jwtManager)
	resetService := service.NewPasswordResetService(identityRepo, store, mailer, time.Minute, "", logger)
	directory := service.NewDirectoryService(gameRepo, locationRepo)
	participation := service.NewParticipationService(
		gameRepo, locationRepo, attendeeRepo, accountRepo, service.NewLogEventPublisher(logger), logger,
	)

	router := SetupRouter(cfg, logger, jwtManager,
		NewAuthHandler(authService, resetService),
		NewGameHandler(directory, participation, cfg.Directory),
		NewLocationHandler(directory),
		NewProfileHandler(service.NewProfileService(profileRepo), participation),
	)
	return &testAPI{t: t, router: router}
}

func (a *testAPI) do(method, path, token string, body interface{}) (int, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			a.t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code, env
}

// signup registers and logs in a user, returning the access token.
func (a *testAPI) signup(email, username string) string {
	a.t.Helper()
	code, env := a.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": email, "password": "password1", "username": username,
	})
	if code != http.StatusCreated {
		a.t.Fatalf("register %s: status %d (%s)", email, code, env.Message)
	}
	code, env = a.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": email, "password": "password1"})
	if code != http.StatusOK {
		a.t.Fatalf("login %s: status %d (%s)", email, code, env.Message)
	}
	var tokens service.TokenSet
	if err := json.Unmarshal(env.Data, &tokens); err != nil {
		a.t.Fatalf("decode tokens: %v", err)
	}
	return tokens.AccessToken
}

func TestGameLifecycle(t *testing.T) {
	api := newTestAPI(t)
	host := api.signup("host@example.com", "host")
	player := api.signup("player@example.com", "player")
	late := api.signup("late@example.com", "late")

	code, env := api.do(http.MethodPost, "/api/v1/games", host, gin.H{
		"title":         "Saturday hoops",
		"new_location":  gin.H{"address": "600 E 900 S", "city": "Salt Lake City", "state": "UT", "country": "US"},
		"game_time":     time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
		"max_attendees": 2,
		"level":         "Intermediate",
	})
	if code != http.StatusCreated {
		t.Fatalf("create game: status %d (%s)", code, env.Message)
	}
	var game struct {
		ID               string `json:"id"`
		CurrentAttendees int    `json:"current_attendees"`
	}
	if err := json.Unmarshal(env.Data, &game); err != nil {
		t.Fatalf("decode game: %v", err)
	}

	code, env = api.do(http.MethodGet, "/api/v1/games?state=UT&page=1", "", nil)
	if code != http.StatusOK {
		t.Fatalf("list games: status %d (%s)", code, env.Message)
	}
	var page struct {
		TotalCount int64 `json:"total_count"`
		PageSize   int   `json:"page_size"`
		Items      []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.TotalCount != 1 || len(page.Items) != 1 || page.Items[0].ID != game.ID || page.PageSize != 10 {
		t.Errorf("page = %+v, want the created game with default page size", page)
	}

	gamePath := "/api/v1/games/" + game.ID
	steps := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		want   int
	}{
		{"join needs auth", http.MethodPost, gamePath + "/join", "", nil, http.StatusUnauthorized},
		{"host joins", http.MethodPost, gamePath + "/join", host, nil, http.StatusCreated},
		{"player joins", http.MethodPost, gamePath + "/join", player, nil, http.StatusCreated},
		{"player joins again", http.MethodPost, gamePath + "/join", player, nil, http.StatusConflict},
		{"late joins full game", http.MethodPost, gamePath + "/join", late, nil, http.StatusConflict},
		{"stranger updates", http.MethodPatch, gamePath, player, gin.H{"title": "Mine"}, http.StatusForbidden},
		{"owner blanks title", http.MethodPatch, gamePath, host, gin.H{"title": ""}, http.StatusBadRequest},
		{"owner renames", http.MethodPatch, gamePath, host, gin.H{"title": "Sunday hoops"}, http.StatusOK},
		{"stranger deletes", http.MethodDelete, gamePath, player, nil, http.StatusForbidden},
		{"owner deletes", http.MethodDelete, gamePath, host, nil, http.StatusOK},
		{"deleted game", http.MethodGet, gamePath, "", nil, http.StatusNotFound},
		{"bad id", http.MethodGet, "/api/v1/games/not-a-uuid", "", nil, http.StatusBadRequest},
	}
	for _, s := range steps {
		if code, env := api.do(s.method, s.path, s.token, s.body); code != s.want {
			t.Errorf("%s: status %d (%s), want %d", s.name, code, env.Message, s.want)
		}
	}
}

func TestListGamesPagination(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		query string
		want  int
	}{
		{"", http.StatusOK},
		{"?page=0", http.StatusBadRequest},
		{"?page_size=-1", http.StatusBadRequest},
		{"?page=abc", http.StatusBadRequest},
		{"?level=Expert", http.StatusBadRequest},
		{"?page=5&page_size=500", http.StatusOK},
		{"?country=Nowhere", http.StatusOK},
	}
	for _, tt := range tests {
		if code, env := api.do(http.MethodGet, "/api/v1/games"+tt.query, "", nil); code != tt.want {
			t.Errorf("GET /games%s: status %d (%s), want %d", tt.query, code, env.Message, tt.want)
		}
	}

	_, env := api.do(http.MethodGet, "/api/v1/games?page_size=500", "", nil)
	var page struct {
		PageSize int             `json:"page_size"`
		Items    json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.PageSize != 50 {
		t.Errorf("page_size = %d, want capped at 50", page.PageSize)
	}
	if string(page.Items) != "[]" {
		t.Errorf("items = %s, want []", page.Items)
	}
}

func TestProfileAndAccountDeletion(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup("gone@example.com", "gone")
	other := api.signup("stay@example.com", "stay")

	if code, _ := api.do(http.MethodGet, "/api/v1/profile", token, nil); code != http.StatusOK {
		t.Fatalf("get profile: status %d", code)
	}
	if code, _ := api.do(http.MethodPatch, "/api/v1/profile", other, gin.H{"username": "GONE"}); code != http.StatusConflict {
		t.Errorf("taken username: status %d, want 409", code)
	}
	if code, _ := api.do(http.MethodPatch, "/api/v1/profile", token, gin.H{"bio": "Left wing"}); code != http.StatusOK {
		t.Errorf("update profile: status %d, want 200", code)
	}

	if code, env := api.do(http.MethodDelete, "/api/v1/account", token, nil); code != http.StatusOK {
		t.Fatalf("delete account: status %d (%s)", code, env.Message)
	}
	if code, _ := api.do(http.MethodGet, "/api/v1/profile", token, nil); code != http.StatusNotFound {
		t.Errorf("profile after deletion: status %d, want 404", code)
	}
	code, _ := api.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "gone@example.com", "password": "password1"})
	if code != http.StatusUnauthorized {
		t.Errorf("login after deletion: status %d, want 401", code)
	}
}

func TestPasswordForgotDoesNotDisclose(t *testing.T) {
	api := newTestAPI(t)
	api.signup("known@example.com", "")

	for _, email := range []string{"known@example.com", "unknown@example.com"} {
		if code, _ := api.do(http.MethodPost, "/api/v1/auth/password/forgot", "", gin.H{"email": email}); code != http.StatusOK {
			t.Errorf("forgot %s: status %d, want 200", email, code)
		}
	}
	code, _ := api.do(http.MethodPost, "/api/v1/auth/password/reset", "", gin.H{"token": "bogus", "password": "password2"})
	if code != http.StatusBadRequest {
		t.Errorf("reset with bogus token: status %d, want 400", code)
	}
}
