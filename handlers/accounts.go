package handlers

import (
	"log"
	"net/http"

	"blogrig-server/auth"
	"blogrig-server/db"
	"blogrig-server/shared"

	"github.com/pkg/errors"
)

// createUser checks email and username availability, hashes the password and
// inserts the user. It writes the error response itself and returns nil on
// failure.
func (h *Handler) createUser(w http.ResponseWriter, r *http.Request, req *shared.RegisterRequest, role shared.Role) *db.User {
	ctx := r.Context()

	existing, err := h.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		writeServerError(w, "Error getting user by email", err)
		return nil
	}
	if existing != nil {
		writeBadRequest(w, "User already exists")
		return nil
	}

	existing, err = h.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		writeServerError(w, "Error getting user by username", err)
		return nil
	}
	if existing != nil {
		writeBadRequest(w, "Username already taken")
		return nil
	}

	hash, err := auth.HashPassword(req.Password, h.bcryptCost)
	if err != nil {
		writeServerError(w, "Error hashing password", err)
		return nil
	}

	if role == "" {
		role = shared.RoleUser
	}

	user := &db.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  hash,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      role,
		IsActive:  true,
	}

	err = h.store.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			// lost a race with a concurrent registration
			writeBadRequest(w, "User already exists")
			return nil
		}
		writeServerError(w, "Error creating user", err)
		return nil
	}

	return user
}

func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for RegisterHandler")

	var req shared.RegisterRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user := h.createUser(w, r, &req, shared.RoleUser)
	if user == nil {
		return
	}

	token, err := h.tokens.Issue(user.Id)
	if err != nil {
		writeServerError(w, "Error issuing token", err)
		return
	}

	log.Println("Successfully processed request for RegisterHandler")

	writeJson(w, http.StatusCreated, shared.AuthResponse{
		Message: "User created successfully",
		Token:   token,
		User:    user.ToApi(),
	})
}

func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for LoginHandler")

	var req shared.LoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		writeServerError(w, "Error getting user by email", err)
		return
	}

	// unknown email, wrong password and inactive accounts look the same
	if user == nil || !auth.VerifyPassword(req.Password, user.Password) || !user.IsActive {
		log.Println("Invalid login attempt")
		writeBadRequest(w, "Invalid credentials")
		return
	}

	token, err := h.tokens.Issue(user.Id)
	if err != nil {
		writeServerError(w, "Error issuing token", err)
		return
	}

	log.Println("Successfully processed request for LoginHandler")

	writeJson(w, http.StatusOK, shared.AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    user.ToApi(),
	})
}

func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for MeHandler")
	serverAuth := h.authenticate(w, r)
	if serverAuth == nil {
		return
	}

	writeJson(w, http.StatusOK, map[string]interface{}{"user": serverAuth.User.ToApi()})
}

// LogoutHandler only confirms; tokens are stateless and expire on their own.
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for LogoutHandler")
	if h.authenticate(w, r) == nil {
		return
	}

	writeMessage(w, http.StatusOK, "Logout successful")
}
