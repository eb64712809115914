package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"artlink/internal/auth"
	"artlink/internal/config"
	"artlink/internal/database/dbtest"
	"artlink/internal/domain"
	"artlink/internal/repository"
	"artlink/internal/service"
	"artlink/internal/storage"
)

const testSigningKey = "test-signing-key-with-at-least-32-bytes"

type fakeImageStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *fakeImageStore) UploadFile(_ context.Context, objectKey string, reader io.Reader, _ int64, contentType string) error {
	b, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectKey] = b
	s.types[objectKey] = contentType
	return nil
}

func (s *fakeImageStore) OpenObject(_ context.Context, objectKey string) (*storage.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[objectKey]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return &storage.Object{
		ReadCloser:  io.NopCloser(bytes.NewReader(b)),
		Size:        int64(len(b)),
		ContentType: s.types[objectKey],
		ETag:        "etag-" + strconv.Itoa(len(b)),
	}, nil
}

// fakeRedis 实现 redisKV，够测试限流与黑名单使用。
type fakeRedis struct {
	mu     sync.Mutex
	values map[string]string
	ttls   map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Incr(_ context.Context, key string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, _ := strconv.ParseInt(f.values[key], 10, 64)
	n++
	f.values[key] = strconv.FormatInt(n, 10)
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) Expire(_ context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[key]; !ok {
		return redis.NewBoolResult(false, nil)
	}
	f.ttls[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) TTL(_ context.Context, key string) *redis.DurationCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[key]; !ok {
		return redis.NewDurationResult(-2, nil)
	}
	ttl, ok := f.ttls[key]
	if !ok {
		return redis.NewDurationResult(-1, nil)
	}
	return redis.NewDurationResult(ttl, nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, key := range keys {
		if _, ok := f.values[key]; ok {
			n++
		}
		delete(f.values, key)
		delete(f.ttls, key)
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = fmt.Sprint(value)
	if expiration > 0 {
		f.ttls[key] = expiration
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.values[key]
	return ok
}

type testEnv struct {
	router     *gin.Engine
	cfg        *config.Config
	tokens     *auth.TokenService
	store      *fakeImageStore
	artists    *service.ArtistService
	employers  *service.EmployerService
	admins     *service.AdminService
	techniques *service.TechniqueService
	portfolios *service.PortfolioService
	artworks   *service.ArtworkService
	contracts  *service.ContractService
}

func testConfig() *config.Config {
	return &config.Config{
		API:    config.APIConfig{Port: 8080},
		Log:    config.LogConfig{Level: "error"},
		JWT:    config.JWTConfig{SigningKey: testSigningKey, Issuer: "artlink", Audience: "artlink-web", TTL: time.Hour},
		Upload: config.UploadConfig{MaxBytes: 1 << 20},
		Login:  config.LoginConfig{RateLimitPerHour: 3, LockThreshold: 2, LockTTL: time.Minute},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := dbtest.Open(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig()

	tokens, err := auth.NewTokenService(cfg.JWT)
	require.NoError(t, err)

	artistRepo := repository.NewArtistRepository(db, logger)
	employerRepo := repository.NewEmployerRepository(db, logger)
	techniqueRepo := repository.NewTechniqueRepository(db, logger)
	portfolioRepo := repository.NewPortfolioRepository(db, logger)
	artworkRepo := repository.NewArtworkRepository(db, logger)
	contractRepo := repository.NewContractRepository(db, logger)

	env := &testEnv{
		cfg:        cfg,
		tokens:     tokens,
		store:      newFakeImageStore(),
		artists:    service.NewArtistService(artistRepo, nil, logger),
		employers:  service.NewEmployerService(employerRepo, logger),
		admins:     service.NewAdminService(repository.NewAdminRepository(db, logger), logger),
		techniques: service.NewTechniqueService(techniqueRepo, nil, logger),
		portfolios: service.NewPortfolioService(portfolioRepo, artistRepo, techniqueRepo, nil, logger),
		artworks:   service.NewArtworkService(artworkRepo, portfolioRepo, nil, logger),
		contracts:  service.NewContractService(contractRepo, artistRepo, employerRepo, nil, logger),
	}

	env.router = NewRouter(cfg, logger)
	RegisterRoutes(env.router, Dependencies{
		Config:     cfg,
		Logger:     logger,
		Tokens:     tokens,
		Storage:    env.store,
		Artists:    env.artists,
		Employers:  env.employers,
		Admins:     env.admins,
		Techniques: env.techniques,
		Portfolios: env.portfolios,
		Artworks:   env.artworks,
		Contracts:  env.contracts,
		Search:     service.NewSearchService(env.artists, env.employers, env.artworks, logger),
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) token(t *testing.T, id uuid.UUID, role domain.Role) string {
	t.Helper()
	issued, err := e.tokens.GenerateToken(id, strings.ToLower(role.String())+"@example.com", role, false)
	require.NoError(t, err)
	return issued.AccessToken
}

func (e *testEnv) registerArtist(t *testing.T, first, last, email string) uuid.UUID {
	t.Helper()
	id, err := e.artists.Register(context.Background(), service.RegisterArtistInput{
		Email:     email,
		Password:  "secret-password",
		FirstName: first,
		LastName:  last,
	})
	require.NoError(t, err)
	return id
}

func (e *testEnv) registerEmployer(t *testing.T, company, email string) uuid.UUID {
	t.Helper()
	id, err := e.employers.Register(context.Background(), service.RegisterEmployerInput{
		CompanyName: company,
		Email:       email,
		Password:    "secret-password",
		CpFirstName: "Carl",
		CpLastName:  "Contact",
	})
	require.NoError(t, err)
	return id
}

func (e *testEnv) addTechnique(t *testing.T, name string) uuid.UUID {
	t.Helper()
	id, err := e.techniques.Add(context.Background(), domain.Technique{Name: name, Description: name + " technique"})
	require.NoError(t, err)
	return id
}

func (e *testEnv) addPortfolio(t *testing.T, artistID, techniqueID uuid.UUID, title string) uuid.UUID {
	t.Helper()
	id, err := e.portfolios.Add(context.Background(), domain.Portfolio{ArtistID: artistID, TechniqueID: techniqueID, Title: title})
	require.NoError(t, err)
	return id
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, "body=%s", w.Body.String())
}

