package handlers

import (
	"time"

	"blogrig-server/auth"
	"blogrig-server/config"
	"blogrig-server/db"
	"blogrig-server/email"
	"blogrig-server/mrr"

	"github.com/go-playground/validator/v10"
)

// Handler carries the dependencies shared by every route. It is built once
// at startup and its methods are registered on the router.
type Handler struct {
	store      db.Store
	tokens     *auth.TokenService
	bcryptCost int
	mrr        *mrr.Service
	ses        email.Sender
	smtp       email.Sender
	config     *config.Config
	validate   *validator.Validate
	now        func() time.Time
}

type Deps struct {
	Store  db.Store
	Tokens *auth.TokenService
	Mrr    *mrr.Service
	SES    email.Sender
	SMTP   email.Sender
	Config *config.Config
}

func New(deps Deps) *Handler {
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{RestampOnPublish: true, BcryptCost: auth.DefaultCost}
	}

	return &Handler{
		store:      deps.Store,
		tokens:     deps.Tokens,
		bcryptCost: cfg.BcryptCost,
		mrr:        deps.Mrr,
		ses:        deps.SES,
		smtp:       deps.SMTP,
		config:     cfg,
		validate:   newValidator(),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the clock used for published_at stamps.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}
