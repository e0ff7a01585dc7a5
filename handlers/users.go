package handlers

import (
	"log"
	"net/http"

	"blogrig-server/auth"
	"blogrig-server/db"
	"blogrig-server/shared"

	"github.com/pkg/errors"
)

func (h *Handler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for ListUsersHandler")
	if h.authorize(w, r, shared.RoleAdmin) == nil {
		return
	}

	page, limit, offset := pagination(r)

	users, total, err := h.store.ListUsers(r.Context(), limit, offset)
	if err != nil {
		writeServerError(w, "Error listing users", err)
		return
	}

	apiUsers := make([]*shared.User, 0, len(users))
	for _, u := range users {
		apiUsers = append(apiUsers, u.ToApi())
	}

	log.Println("Successfully processed request for ListUsersHandler")

	writeJson(w, http.StatusOK, shared.ListUsersResponse{
		Users:      apiUsers,
		Pagination: shared.NewPagination(page, limit, total),
	})
}

func (h *Handler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for GetUserHandler")

	id, ok := pathId(w, r, "id", "User not found")
	if !ok {
		return
	}

	user, err := h.store.GetUser(r.Context(), id)
	if err != nil {
		writeServerError(w, "Error getting user", err)
		return
	}
	if user == nil {
		writeNotFound(w, "User not found")
		return
	}

	writeJson(w, http.StatusOK, map[string]interface{}{"user": user.ToApi()})
}

func (h *Handler) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for CreateUserHandler")
	if h.authorize(w, r, shared.RoleAdmin) == nil {
		return
	}

	var req shared.CreateUserRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user := h.createUser(w, r, &req.RegisterRequest, req.Role)
	if user == nil {
		return
	}

	log.Println("Successfully processed request for CreateUserHandler")

	writeJson(w, http.StatusCreated, map[string]interface{}{
		"message": "User created successfully",
		"user":    user.ToApi(),
	})
}

func (h *Handler) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for UpdateUserHandler")
	serverAuth := h.authenticate(w, r)
	if serverAuth == nil {
		return
	}

	id, ok := pathId(w, r, "id", "User not found")
	if !ok {
		return
	}

	if !authorizeOwner(w, serverAuth, &id, shared.RoleAdmin) {
		return
	}

	var req shared.UpdateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	// only admins change role or activation, including their own
	if (req.Role.Set || req.IsActive.Set) && !serverAuth.HasRole(shared.RoleAdmin) {
		writeForbidden(w)
		return
	}

	var errs []shared.FieldError
	errs = h.validateField(errs, "username", req.Username, "min=3,username")
	errs = h.validateField(errs, "email", req.Email, "email")
	errs = h.validateField(errs, "password", req.Password, "min=6,password")
	errs = h.validateField(errs, "first_name", req.FirstName, "required")
	errs = h.validateField(errs, "last_name", req.LastName, "required")
	if req.Role.Set && !req.Role.Null && !req.Role.Value.Valid() {
		errs = append(errs, shared.FieldError{Field: "role", Msg: "role must be one of: admin, author, user"})
	}
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	update := &db.UserUpdate{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Avatar:    req.Avatar,
		Bio:       req.Bio,
		Role:      req.Role,
		IsActive:  req.IsActive,
	}

	if req.Password.Set && !req.Password.Null {
		hash, err := auth.HashPassword(req.Password.Value, h.bcryptCost)
		if err != nil {
			writeServerError(w, "Error hashing password", err)
			return
		}
		update.Password = shared.Some(hash)
	}

	ctx := r.Context()

	found, err := h.store.UpdateUser(ctx, id, update)
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			writeBadRequest(w, "Username or email already taken")
			return
		}
		writeServerError(w, "Error updating user", err)
		return
	}
	if !found {
		writeNotFound(w, "User not found")
		return
	}

	user, err := h.store.GetUser(ctx, id)
	if err != nil {
		writeServerError(w, "Error getting user", err)
		return
	}
	if user == nil {
		writeNotFound(w, "User not found")
		return
	}

	log.Println("Successfully processed request for UpdateUserHandler")

	writeJson(w, http.StatusOK, map[string]interface{}{
		"message": "User updated successfully",
		"user":    user.ToApi(),
	})
}

func (h *Handler) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for DeleteUserHandler")
	if h.authorize(w, r, shared.RoleAdmin) == nil {
		return
	}

	id, ok := pathId(w, r, "id", "User not found")
	if !ok {
		return
	}

	found, err := h.store.DeleteUser(r.Context(), id)
	if err != nil {
		writeServerError(w, "Error deleting user", err)
		return
	}
	if !found {
		writeNotFound(w, "User not found")
		return
	}

	log.Println("Successfully processed request for DeleteUserHandler")

	writeMessage(w, http.StatusOK, "User deleted successfully")
}
