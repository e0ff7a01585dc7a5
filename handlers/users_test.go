package handlers_test

import (
	"net/http"
	"strconv"
	"strings"
	"testing"

	"blogrig-server/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestListUsersRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedUser("admin", shared.RoleAdmin)
	_, userToken := env.seedUser("reader", shared.RoleUser)

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/users", "", nil).Code)

	forbidden := env.do(http.MethodGet, "/api/users", userToken, nil)
	assert.Equal(t, http.StatusForbidden, forbidden.Code)
	assert.Equal(t, "Access denied", forbidden.Body["message"])

	res := env.do(http.MethodGet, "/api/users?limit=1&page=2", adminToken, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, list(t, res.Body["users"]), 1)

	pag := obj(t, res.Body["pagination"])
	assert.Equal(t, float64(2), pag["page"])
	assert.Equal(t, float64(1), pag["limit"])
	assert.Equal(t, float64(2), pag["total"])
	assert.Equal(t, float64(2), pag["pages"])
}

func TestUpdateUserPartial(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.seedUser("ada", shared.RoleUser)

	res := env.do(http.MethodPut, "/api/users/"+itoa(user.Id), token, map[string]interface{}{"bio": "hello"})
	require.Equal(t, http.StatusOK, res.Code, string(res.Raw))

	res = env.do(http.MethodPut, "/api/users/"+itoa(user.Id), token, map[string]interface{}{"first_name": "Augusta"})
	require.Equal(t, http.StatusOK, res.Code, string(res.Raw))

	updated := obj(t, res.Body["user"])
	assert.Equal(t, "Augusta", updated["first_name"])
	assert.Equal(t, "Last", updated["last_name"])
	assert.Equal(t, "ada", updated["username"])
	assert.Equal(t, "hello", updated["bio"])

	t.Run("null clears a nullable column", func(t *testing.T) {
		res := env.do(http.MethodPut, "/api/users/"+itoa(user.Id), token, `{"bio": null}`)
		require.Equal(t, http.StatusOK, res.Code)
		assert.Nil(t, obj(t, res.Body["user"])["bio"])
	})

	t.Run("overlong password", func(t *testing.T) {
		res := env.do(http.MethodPut, "/api/users/"+itoa(user.Id), token, map[string]interface{}{"password": strings.Repeat("a", 80)})
		require.Equal(t, http.StatusBadRequest, res.Code, string(res.Raw))
		assert.Equal(t, "password", obj(t, list(t, res.Body["errors"])[0])["field"])
	})

	t.Run("non-admin can't change role", func(t *testing.T) {
		res := env.do(http.MethodPut, "/api/users/"+itoa(user.Id), token, map[string]interface{}{"role": "admin"})
		assert.Equal(t, http.StatusForbidden, res.Code)
	})

	t.Run("other users are forbidden", func(t *testing.T) {
		_, otherToken := env.seedUser("bob", shared.RoleAuthor)
		res := env.do(http.MethodPut, "/api/users/"+itoa(user.Id), otherToken, map[string]interface{}{"bio": "hacked"})
		assert.Equal(t, http.StatusForbidden, res.Code)
	})

	t.Run("duplicate username", func(t *testing.T) {
		env.seedUser("taken", shared.RoleUser)
		res := env.do(http.MethodPut, "/api/users/"+itoa(user.Id), token, map[string]interface{}{"username": "taken"})
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("password is re-hashed", func(t *testing.T) {
		res := env.do(http.MethodPut, "/api/users/"+itoa(user.Id), token, map[string]interface{}{"password": "brand-new-pass"})
		require.Equal(t, http.StatusOK, res.Code)

		login := env.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": user.Email, "password": "brand-new-pass"})
		assert.Equal(t, http.StatusOK, login.Code)
	})
}

func TestAdminUserManagement(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedUser("admin", shared.RoleAdmin)

	res := env.do(http.MethodPost, "/api/users", adminToken, map[string]interface{}{
		"username":   "writer",
		"email":      "writer@example.com",
		"password":   testPassword,
		"first_name": "W",
		"last_name":  "R",
		"role":       "author",
	})
	require.Equal(t, http.StatusCreated, res.Code, string(res.Raw))
	created := obj(t, res.Body["user"])
	assert.Equal(t, "author", created["role"])
	id := int64(created["id"].(float64))

	get := env.do(http.MethodGet, "/api/users/"+itoa(id), "", nil)
	assert.Equal(t, http.StatusOK, get.Code)

	del := env.do(http.MethodDelete, "/api/users/"+itoa(id), adminToken, nil)
	assert.Equal(t, http.StatusOK, del.Code)

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/users/"+itoa(id), "", nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodDelete, "/api/users/"+itoa(id), adminToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/users/abc", "", nil).Code)
}

func TestAdminCreateUserPasswordLimit(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedUser("admin", shared.RoleAdmin)

	body := registerBody("newbie", "newbie@example.com")
	body["role"] = "author"
	body["password"] = strings.Repeat("x", 73)

	res := env.do(http.MethodPost, "/api/users", adminToken, body)
	require.Equal(t, http.StatusBadRequest, res.Code, string(res.Raw))

	body["password"] = strings.Repeat("x", 72)
	res = env.do(http.MethodPost, "/api/users", adminToken, body)
	assert.Equal(t, http.StatusCreated, res.Code, string(res.Raw))
}
