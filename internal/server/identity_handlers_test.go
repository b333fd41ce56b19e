package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"confessio/internal/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetIdentity(t *testing.T) {
	app, _ := setupTestApp(t)

	t.Run("first visit mints a token and sets the cookie", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodGet, "/api/users", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			UserID string `json:"user_id"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.NotEmpty(t, body.UserID)

		var cookie *http.Cookie
		for _, c := range resp.Cookies() {
			if c.Name == middleware.IdentityCookie {
				cookie = c
			}
		}
		require.NotNil(t, cookie, "identity cookie must be set")
		assert.Equal(t, body.UserID, cookie.Value)
		assert.Equal(t, "/", cookie.Path)
		assert.Greater(t, cookie.MaxAge, 60*60*24*365, "cookie should outlive a year")
	})

	t.Run("returning browser keeps its token", func(t *testing.T) {
		req := asUser(jsonRequest(http.MethodGet, "/api/users", nil), "existing-token")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			UserID string `json:"user_id"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "existing-token", body.UserID)

		for _, c := range resp.Cookies() {
			assert.NotEqual(t, middleware.IdentityCookie, c.Name, "no new cookie for a returning browser")
		}
	})
}
