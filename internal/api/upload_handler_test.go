package api

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artlink/internal/api/middleware"
	"artlink/internal/domain"
	"artlink/internal/storage"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func pngBytes() []byte {
	return append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0x01}, 64)...)
}

func uploadRequest(t *testing.T, folder, filename string, content []byte, token string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if folder != "" {
		require.NoError(t, mw.WriteField("folder", folder))
	}
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads/images", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func serveRequest(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestUploadImage_StoresAndServes(t *testing.T) {
	env := newTestEnv(t)
	anna := env.registerArtist(t, "Anna", "Taylor", "anna@example.com")
	token := env.token(t, anna, domain.RoleArtist)

	w := serveRequest(env.router, uploadRequest(t, storage.FolderArtworks, "sunset.PNG", pngBytes(), token))
	requireStatus(t, w, http.StatusCreated)
	path := decode[map[string]string](t, w)["path"]
	require.True(t, strings.HasPrefix(path, "/uploads/images/artworks/"), path)
	assert.True(t, strings.HasSuffix(path, ".png"), path)

	key, ok := storage.KeyFromPublicPath(path)
	require.True(t, ok)
	assert.Equal(t, "image/png", env.store.types[key])

	w = env.do(t, http.MethodGet, path, nil, "")
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, pngBytes(), w.Body.Bytes())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("If-None-Match", etag)
	requireStatus(t, serveRequest(env.router, req), http.StatusNotModified)
}

func TestUploadImage_Validation(t *testing.T) {
	env := newTestEnv(t)
	anna := env.registerArtist(t, "Anna", "Taylor", "anna@example.com")
	artistToken := env.token(t, anna, domain.RoleArtist)
	acme := env.registerEmployer(t, "Acme", "acme@example.com")

	tests := []struct {
		name     string
		folder   string
		filename string
		content  []byte
		token    string
		status   int
	}{
		{"no token", storage.FolderArtworks, "a.png", pngBytes(), "", http.StatusUnauthorized},
		{"employer", storage.FolderProfiles, "a.png", pngBytes(), env.token(t, acme, domain.RoleEmployer), http.StatusForbidden},
		{"unknown folder", "documents", "a.png", pngBytes(), artistToken, http.StatusBadRequest},
		{"missing file", storage.FolderArtworks, "", nil, artistToken, http.StatusBadRequest},
		{"empty file", storage.FolderArtworks, "a.png", []byte{}, artistToken, http.StatusBadRequest},
		{"gif extension", storage.FolderArtworks, "a.gif", []byte("GIF89a......"), artistToken, http.StatusBadRequest},
		{"text disguised as png", storage.FolderArtworks, "a.png", []byte("just some text, not an image"), artistToken, http.StatusBadRequest},
		{"too large", storage.FolderArtworks, "a.png", append(pngBytes(), make([]byte, 1<<20)...), artistToken, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveRequest(env.router, uploadRequest(t, tt.folder, tt.filename, tt.content, tt.token))
			requireStatus(t, w, tt.status)
		})
	}
	assert.Empty(t, env.store.objects)
}

type fakeScanner struct {
	err error
}

func (s fakeScanner) Scan(r io.Reader) error {
	_, _ = io.Copy(io.Discard, r)
	return s.err
}

func newUploadEngine(t *testing.T, env *testEnv, scanner VirusScanner) *gin.Engine {
	t.Helper()
	h := NewUploadHandler(env.store, scanner, env.cfg.Upload.MaxBytes)
	engine := gin.New()
	engine.Use(middleware.SlogLoggerMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	engine.POST("/api/uploads/images", middleware.AuthMiddleware(env.tokens, nil), h.UploadImage)
	return engine
}

func TestUploadImage_VirusScan(t *testing.T) {
	env := newTestEnv(t)
	anna := env.registerArtist(t, "Anna", "Taylor", "anna@example.com")
	token := env.token(t, anna, domain.RoleArtist)

	infected := newUploadEngine(t, env, fakeScanner{err: errors.Join(ErrInfected, errors.New("Eicar-Test-Signature"))})
	w := serveRequest(infected, uploadRequest(t, storage.FolderProfiles, "me.png", pngBytes(), token))
	requireStatus(t, w, http.StatusBadRequest)
	assert.Contains(t, w.Body.String(), "malicious")

	broken := newUploadEngine(t, env, fakeScanner{err: errors.New("clamd unavailable")})
	w = serveRequest(broken, uploadRequest(t, storage.FolderProfiles, "me.png", pngBytes(), token))
	requireStatus(t, w, http.StatusInternalServerError)
	assert.NotContains(t, w.Body.String(), "clamd")
	assert.Empty(t, env.store.objects)

	clean := newUploadEngine(t, env, fakeScanner{})
	w = serveRequest(clean, uploadRequest(t, storage.FolderProfiles, "me.jpg", pngBytes(), token))
	requireStatus(t, w, http.StatusCreated)
	assert.Len(t, env.store.objects, 1)
}

func TestMedia_RejectsInvalidKeys(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{
		"/uploads/images/artworks/missing.png",
		"/uploads/images/documents/a.png",
		"/uploads/images/artworks/a.txt",
		"/uploads/../etc/passwd",
		"/uploads/other/a.png",
	} {
		w := env.do(t, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestNewClamdScanner_DisabledWithoutAddress(t *testing.T) {
	assert.Nil(t, NewClamdScanner(""))
	assert.NotNil(t, NewClamdScanner("tcp://127.0.0.1:3310"))
}
