package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"confessio/internal/config"
	"confessio/internal/middleware"
	"confessio/internal/models"
	"confessio/internal/repository"
	"confessio/internal/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestApp wires a Server against a fresh in-memory sqlite database and
// mounts the real routes. The prometheus middleware stays nil so repeated
// setups do not re-register collectors.
func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Confession{}, &models.ConfessionVote{}); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	cfg := &config.Config{
		Env:           "test",
		HotVoteCutoff: "2025-03-13",
	}
	confessionRepo := repository.NewConfessionRepository(db, cfg.HotVoteCutoffTime())
	voteRepo := repository.NewVoteRepository(db)

	s := &Server{
		config:            cfg,
		db:                db,
		confessionRepo:    confessionRepo,
		voteRepo:          voteRepo,
		confessionService: service.NewConfessionService(confessionRepo, voteRepo),
		voteService:       service.NewVoteService(voteRepo),
	}

	app := fiber.New()
	app.Use(middleware.Identity())
	s.SetupRoutes(app)

	return app, db
}

func jsonRequest(method, target string, body any) *http.Request {
	var buf io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		buf = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func asUser(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: middleware.IdentityCookie, Value: token})
	return req
}

func decodeConfession(t *testing.T, resp *http.Response) models.Confession {
	t.Helper()
	var c models.Confession
	if err := json.NewDecoder(resp.Body).Decode(&c); err != nil {
		t.Fatalf("decode confession: %v", err)
	}
	return c
}

func decodeConfessions(t *testing.T, resp *http.Response) []models.Confession {
	t.Helper()
	var list []models.Confession
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode confessions: %v", err)
	}
	return list
}
