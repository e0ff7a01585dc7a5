package handlers_test

import (
	"net/http"
	"testing"

	"blogrig-server/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMrrWhoAmI(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedUser("admin", shared.RoleAdmin)
	_, userToken := env.seedUser("reader", shared.RoleUser)

	env.marketplace.respond(http.StatusOK, `{"success":true,"data":{"userid":"42","username":"miner"}}`)

	res := env.do(http.MethodGet, "/api/mrr/whoami", userToken, nil)
	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Empty(t, env.marketplace.recorded())

	res = env.do(http.MethodGet, "/api/mrr/whoami", adminToken, nil)
	require.Equal(t, http.StatusOK, res.Code, string(res.Raw))
	assert.Equal(t, "Account info retrieved successfully", res.Body["message"])
	assert.Equal(t, "miner", obj(t, res.Body["data"])["username"])

	calls := env.marketplace.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodGet, calls[0].Method)
	assert.Equal(t, "/whoami", calls[0].Endpoint)
}

func TestMrrMissingFields(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedUser("admin", shared.RoleAdmin)

	res := env.do(http.MethodPost, "/api/mrr/pools", adminToken, map[string]interface{}{"name": "main", "port": 3333})
	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, []interface{}{"algo", "host", "user"}, res.Body["fields"])

	res = env.do(http.MethodGet, "/api/mrr/rigs", adminToken, nil)
	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, []interface{}{"algo"}, res.Body["fields"])

	res = env.do(http.MethodPost, "/api/mrr/rentals", adminToken, "{not json")
	assert.Equal(t, http.StatusBadRequest, res.Code)

	assert.Empty(t, env.marketplace.recorded())
}

func TestMrrForwardsRequests(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedUser("admin", shared.RoleAdmin)

	t.Run("rig search query", func(t *testing.T) {
		res := env.do(http.MethodGet, "/api/mrr/rigs?algo=sha256&region=eu", adminToken, nil)
		require.Equal(t, http.StatusOK, res.Code)

		calls := env.marketplace.recorded()
		require.NotEmpty(t, calls)
		assert.Equal(t, "/rig?type=sha256&count=20&region.eu=true", calls[len(calls)-1].Endpoint)
	})

	t.Run("id lists pass through", func(t *testing.T) {
		res := env.do(http.MethodGet, "/api/mrr/rigs/1;2;3", adminToken, nil)
		require.Equal(t, http.StatusOK, res.Code)

		calls := env.marketplace.recorded()
		assert.Equal(t, "/rig/1;2;3", calls[len(calls)-1].Endpoint)
	})

	t.Run("encoded ids stay in the path", func(t *testing.T) {
		res := env.do(http.MethodGet, "/api/mrr/rentals/5%3Ftype=owner%26x=1", adminToken, nil)
		require.Equal(t, http.StatusOK, res.Code, string(res.Raw))

		calls := env.marketplace.recorded()
		assert.Equal(t, "/rental/5%3Ftype=owner&x=1", calls[len(calls)-1].Endpoint)
	})

	t.Run("rental body is renamed", func(t *testing.T) {
		res := env.do(http.MethodPost, "/api/mrr/rentals", adminToken, `{"rigId":"123","length":3,"profileId":77}`)
		require.Equal(t, http.StatusOK, res.Code, string(res.Raw))

		calls := env.marketplace.recorded()
		last := calls[len(calls)-1]
		assert.Equal(t, http.MethodPut, last.Method)
		assert.Equal(t, "/rental", last.Endpoint)
		assert.Equal(t, "123", last.Body["rig"])
		assert.Equal(t, float64(3), last.Body["length"])
		assert.Equal(t, float64(77), last.Body["profile"])
		assert.NotContains(t, last.Body, "currency")
	})
}

func TestMrrErrors(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedUser("admin", shared.RoleAdmin)

	t.Run("not authenticated with success false", func(t *testing.T) {
		env.marketplace.respond(http.StatusOK, `{"success":false,"data":{"message":"Not authenticated"}}`)

		res := env.do(http.MethodGet, "/api/mrr/balance", adminToken, nil)
		require.Equal(t, http.StatusUnauthorized, res.Code)
		assert.Equal(t, "unauthenticated", res.Body["type"])
		assert.Equal(t, "Not authenticated", res.Body["message"])
	})

	t.Run("not authenticated on error status", func(t *testing.T) {
		env.marketplace.respond(http.StatusForbidden, `{"success":false,"data":{"message":"Not authenticated"}}`)

		res := env.do(http.MethodGet, "/api/mrr/balance", adminToken, nil)
		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})

	t.Run("upstream failure", func(t *testing.T) {
		env.marketplace.respond(http.StatusInternalServerError, `{"success":false,"data":{"message":"boom"}}`)

		res := env.do(http.MethodGet, "/api/mrr/rentals", adminToken, nil)
		require.Equal(t, http.StatusInternalServerError, res.Code)
		assert.Equal(t, "HTTP 500: boom", res.Body["message"])
	})

	t.Run("each failed call is sent once", func(t *testing.T) {
		before := len(env.marketplace.recorded())
		env.marketplace.respond(http.StatusBadGateway, `not json`)

		res := env.do(http.MethodDelete, "/api/mrr/profiles/9", adminToken, nil)
		assert.Equal(t, http.StatusInternalServerError, res.Code)
		assert.Len(t, env.marketplace.recorded(), before+1)
	})
}
