package api

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artlink/internal/domain"
)

func TestArtistRegisterLoginAndGet(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/artists/register", map[string]any{
		"first_name": "Anna",
		"last_name":  "Taylor",
		"email":      "anna@example.com",
		"password":   "secret-password",
		"experience": 5,
	}, "")
	requireStatus(t, w, http.StatusCreated)
	created := decode[createdResponse](t, w)
	require.NotEqual(t, uuid.Nil, created.ID)

	w = env.do(t, http.MethodPost, "/api/artists/login", map[string]any{
		"email":    "anna@example.com",
		"password": "secret-password",
	}, "")
	requireStatus(t, w, http.StatusOK)
	login := decode[map[string]any](t, w)
	assert.Equal(t, "Bearer", login["token_type"])
	assert.NotEmpty(t, login["access_token"])
	assert.EqualValues(t, 3600, login["expires_in"])

	w = env.do(t, http.MethodGet, "/api/artists/"+created.ID.String(), nil, "")
	requireStatus(t, w, http.StatusOK)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "Anna", body["first_name"])
	assert.EqualValues(t, 5, body["experience"])
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "password_hash")
}

func TestArtistRegister_Validation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/artists/register", map[string]any{
		"first_name": "Anna",
		"last_name":  "Taylor",
		"email":      "not-an-email",
		"password":   "secret-password",
	}, "")
	requireStatus(t, w, http.StatusBadRequest)

	w = env.do(t, http.MethodPost, "/api/artists/register", map[string]any{
		"first_name": "Anna",
		"last_name":  "Taylor",
		"email":      "anna@example.com",
		"password":   "short",
	}, "")
	requireStatus(t, w, http.StatusBadRequest)
}

func TestArtistRegister_DuplicateEmailConflicts(t *testing.T) {
	env := newTestEnv(t)
	env.registerArtist(t, "Anna", "Taylor", "anna@example.com")

	w := env.do(t, http.MethodPost, "/api/artists/register", map[string]any{
		"first_name": "Other",
		"last_name":  "Person",
		"email":      "anna@example.com",
		"password":   "secret-password",
	}, "")
	requireStatus(t, w, http.StatusConflict)
}

func TestArtistLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.registerArtist(t, "Anna", "Taylor", "anna@example.com")

	w := env.do(t, http.MethodPost, "/api/artists/login", map[string]any{
		"email":    "anna@example.com",
		"password": "wrong-password",
	}, "")
	requireStatus(t, w, http.StatusUnauthorized)

	w = env.do(t, http.MethodPost, "/api/artists/login", map[string]any{
		"email":    "nobody@example.com",
		"password": "secret-password",
	}, "")
	requireStatus(t, w, http.StatusUnauthorized)
}

func TestArtistGet_NotFoundAndBadID(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/artists/"+uuid.NewString(), nil, "")
	requireStatus(t, w, http.StatusNotFound)

	w = env.do(t, http.MethodGet, "/api/artists/not-a-uuid", nil, "")
	requireStatus(t, w, http.StatusBadRequest)
}

func TestArtistUpdate_Ownership(t *testing.T) {
	env := newTestEnv(t)
	anna := env.registerArtist(t, "Anna", "Taylor", "anna@example.com")
	bob := env.registerArtist(t, "Bob", "Stone", "bob@example.com")

	update := map[string]any{
		"first_name": "Annabel",
		"last_name":  "Taylor",
		"email":      "anna@example.com",
	}

	w := env.do(t, http.MethodPut, "/api/artists/"+anna.String(), update, "")
	requireStatus(t, w, http.StatusUnauthorized)

	w = env.do(t, http.MethodPut, "/api/artists/"+anna.String(), update, env.token(t, bob, domain.RoleArtist))
	requireStatus(t, w, http.StatusForbidden)

	employer := env.registerEmployer(t, "Acme", "acme@example.com")
	w = env.do(t, http.MethodPut, "/api/artists/"+anna.String(), update, env.token(t, employer, domain.RoleEmployer))
	requireStatus(t, w, http.StatusForbidden)

	w = env.do(t, http.MethodPut, "/api/artists/"+anna.String(), update, env.token(t, anna, domain.RoleArtist))
	requireStatus(t, w, http.StatusNoContent)

	got := decode[map[string]any](t, env.do(t, http.MethodGet, "/api/artists/"+anna.String(), nil, ""))
	assert.Equal(t, "Annabel", got["first_name"])

	w = env.do(t, http.MethodPut, "/api/artists/"+uuid.NewString(), update, env.token(t, uuid.New(), domain.RoleAdmin))
	requireStatus(t, w, http.StatusNotFound)
}

func TestArtistDelete(t *testing.T) {
	env := newTestEnv(t)
	anna := env.registerArtist(t, "Anna", "Taylor", "anna@example.com")

	w := env.do(t, http.MethodDelete, "/api/artists/"+anna.String(), nil, env.token(t, uuid.New(), domain.RoleAdmin))
	requireStatus(t, w, http.StatusNoContent)

	w = env.do(t, http.MethodGet, "/api/artists/"+anna.String(), nil, "")
	requireStatus(t, w, http.StatusNotFound)
}

func TestEmployerList_RequiresAuthentication(t *testing.T) {
	env := newTestEnv(t)
	acme := env.registerEmployer(t, "Acme", "acme@example.com")

	w := env.do(t, http.MethodGet, "/api/employers", nil, "")
	requireStatus(t, w, http.StatusUnauthorized)

	w = env.do(t, http.MethodGet, "/api/employers", nil, env.token(t, acme, domain.RoleEmployer))
	requireStatus(t, w, http.StatusOK)
	list := decode[[]map[string]any](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "Acme", list[0]["company_name"])
	assert.Equal(t, "Carl", list[0]["cp_first_name"])
}
