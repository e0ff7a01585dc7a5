package routes

import (
	"net/http"

	"blogrig-server/handlers"

	"github.com/gorilla/mux"
)

type Options struct {
	// colorized request logs
	Development bool
}

// NewRouter builds the full route table over h.
func NewRouter(h *handlers.Handler, opts Options) *mux.Router {
	r := mux.NewRouter()
	r.Use(handlers.Recoverer)
	r.Use(handlers.RequestLogger(opts.Development))

	AddHealthRoutes(r, h)
	AddApiRoutes(r, h)

	r.NotFoundHandler = http.HandlerFunc(h.NotFoundHandler)
	r.MethodNotAllowedHandler = http.HandlerFunc(h.NotFoundHandler)

	return r
}

func AddHealthRoutes(r *mux.Router, h *handlers.Handler) {
	r.HandleFunc("/", h.RootHandler).Methods("GET")
	r.HandleFunc("/health", h.HealthHandler).Methods("GET")
}

func AddApiRoutes(r *mux.Router, h *handlers.Handler) {
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", h.RegisterHandler).Methods("POST")
	api.HandleFunc("/auth/login", h.LoginHandler).Methods("POST")
	api.HandleFunc("/auth/me", h.MeHandler).Methods("GET")
	api.HandleFunc("/auth/logout", h.LogoutHandler).Methods("POST")

	api.HandleFunc("/users", h.ListUsersHandler).Methods("GET")
	api.HandleFunc("/users", h.CreateUserHandler).Methods("POST")
	api.HandleFunc("/users/{id}", h.GetUserHandler).Methods("GET")
	api.HandleFunc("/users/{id}", h.UpdateUserHandler).Methods("PUT")
	api.HandleFunc("/users/{id}", h.DeleteUserHandler).Methods("DELETE")

	api.HandleFunc("/categories", h.ListCategoriesHandler).Methods("GET")
	api.HandleFunc("/categories", h.CreateCategoryHandler).Methods("POST")
	api.HandleFunc("/categories/{slug}", h.GetCategoryHandler).Methods("GET")
	api.HandleFunc("/categories/{id}", h.UpdateCategoryHandler).Methods("PUT")
	api.HandleFunc("/categories/{id}", h.DeleteCategoryHandler).Methods("DELETE")

	// fixed paths before /posts/{slug}
	api.HandleFunc("/posts", h.ListPostsHandler).Methods("GET")
	api.HandleFunc("/posts", h.CreatePostHandler).Methods("POST")
	api.HandleFunc("/posts/popular", h.ListPopularPostsHandler).Methods("GET")
	api.HandleFunc("/posts/id/{id}", h.GetPostByIdHandler).Methods("GET")
	api.HandleFunc("/posts/{slug}", h.GetPostHandler).Methods("GET")
	api.HandleFunc("/posts/{id}", h.UpdatePostHandler).Methods("PUT")
	api.HandleFunc("/posts/{id}", h.DeletePostHandler).Methods("DELETE")

	api.HandleFunc("/comments", h.ListCommentsHandler).Methods("GET")
	api.HandleFunc("/comments", h.CreateCommentHandler).Methods("POST")
	api.HandleFunc("/comments/post/{postId}", h.ListPostCommentsHandler).Methods("GET")
	api.HandleFunc("/comments/{id}", h.GetCommentHandler).Methods("GET")
	api.HandleFunc("/comments/{id}", h.UpdateCommentHandler).Methods("PUT")
	api.HandleFunc("/comments/{id}/status", h.UpdateCommentStatusHandler).Methods("PUT")
	api.HandleFunc("/comments/{id}", h.DeleteCommentHandler).Methods("DELETE")

	api.HandleFunc("/email-sdk", h.SendSESEmailHandler).Methods("GET", "POST")
	api.HandleFunc("/email-smtp", h.SendSMTPEmailHandler).Methods("GET", "POST")

	AddMrrRoutes(api, h)
}

func AddMrrRoutes(api *mux.Router, h *handlers.Handler) {
	api.Handle("/mrr/whoami", h.MrrWhoAmIHandler()).Methods("GET")
	api.Handle("/mrr/balance", h.MrrBalanceHandler()).Methods("GET")

	api.Handle("/mrr/pools", h.MrrListPoolsHandler()).Methods("GET")
	api.Handle("/mrr/pools", h.MrrCreatePoolHandler()).Methods("POST")
	api.Handle("/mrr/pools/test", h.MrrTestPoolHandler()).Methods("POST")
	api.Handle("/mrr/pools/{ids}", h.MrrDeletePoolsHandler()).Methods("DELETE")

	api.Handle("/mrr/rigs", h.MrrListRigsHandler()).Methods("GET")
	api.Handle("/mrr/rigs/{ids}", h.MrrGetRigsHandler()).Methods("GET")

	api.Handle("/mrr/rentals", h.MrrListRentalsHandler()).Methods("GET")
	api.Handle("/mrr/rentals", h.MrrCreateRentalHandler()).Methods("POST")
	api.Handle("/mrr/rentals/{ids}", h.MrrGetRentalsHandler()).Methods("GET")
	api.Handle("/mrr/rentals/{id}/pool", h.MrrAttachPoolHandler()).Methods("POST")

	api.Handle("/mrr/profiles", h.MrrListProfilesHandler()).Methods("GET")
	api.Handle("/mrr/profiles", h.MrrCreateProfileHandler()).Methods("POST")
	api.Handle("/mrr/profiles/{id}", h.MrrGetProfileHandler()).Methods("GET")
	api.Handle("/mrr/profiles/{id}", h.MrrDeleteProfileHandler()).Methods("DELETE")
}
