package handlers

import (
	"log"
	"net/http"
	"strings"

	"blogrig-server/auth"
	"blogrig-server/shared"
	"blogrig-server/types"
)

// resolveToken returns the active user behind the request's bearer token, or
// nil for any failure. Failures are not distinguished.
func (h *Handler) resolveToken(r *http.Request) (*types.ServerAuth, error) {
	authHeader := r.Header.Get("Authorization")

	if authHeader == "" {
		log.Println("no auth header")
		return nil, nil
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		log.Println("invalid auth header")
		return nil, nil
	}

	// strip off the "Bearer " prefix
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

	userId, err := h.tokens.Verify(token)
	if err != nil {
		log.Printf("error validating auth token: %v\n", err)
		return nil, nil
	}

	user, err := h.store.GetUser(r.Context(), userId)
	if err != nil {
		return nil, err
	}

	if user == nil || !user.IsActive {
		log.Printf("user %d missing or inactive\n", userId)
		return nil, nil
	}

	return &types.ServerAuth{User: user}, nil
}

func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request) *types.ServerAuth {
	log.Println("authenticating request")

	serverAuth, err := h.resolveToken(r)
	if err != nil {
		writeServerError(w, "Error getting user", err)
		return nil
	}

	if serverAuth == nil {
		writeUnauthorized(w)
		return nil
	}

	return serverAuth
}

// optionalAuthenticate never fails the request: an absent or invalid token
// means a guest (nil).
func (h *Handler) optionalAuthenticate(r *http.Request) *types.ServerAuth {
	serverAuth, err := h.resolveToken(r)
	if err != nil {
		log.Printf("error resolving optional auth: %v\n", err)
		return nil
	}
	return serverAuth
}

// authorize authenticates the request and then requires one of roles.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request, roles ...shared.Role) *types.ServerAuth {
	serverAuth := h.authenticate(w, r)
	if serverAuth == nil {
		return nil
	}

	if !serverAuth.HasRole(roles...) {
		log.Printf("user %d does not have a required role\n", serverAuth.UserId())
		writeForbidden(w)
		return nil
	}

	return serverAuth
}

// authorizeOwner allows the owner of a resource or any of roles.
func authorizeOwner(w http.ResponseWriter, serverAuth *types.ServerAuth, ownerId *int64, roles ...shared.Role) bool {
	if !auth.Allow(serverAuth.Role(), serverAuth.UserId(), ownerId, roles...) {
		log.Printf("user %d is not allowed to modify this resource\n", serverAuth.UserId())
		writeForbidden(w)
		return false
	}
	return true
}
