package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"blogrig-server/mrr"
	"blogrig-server/shared"

	"github.com/gorilla/mux"
)

type mrrCall func(ctx context.Context, r *http.Request, p mrr.Params) (json.RawMessage, error)

type mrrResponse struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func writeMrrError(w http.ResponseWriter, err error) {
	var mrrErr *mrr.Error
	if !errors.As(err, &mrrErr) {
		writeServerError(w, "Error calling marketplace", err)
		return
	}

	switch mrrErr.Kind {
	case mrr.KindValidation:
		writeApiError(w, shared.ApiError{
			Type:   shared.ApiErrorTypeValidation,
			Status: http.StatusBadRequest,
			Msg:    mrrErr.Message,
			Fields: mrrErr.Fields,
		})
	case mrr.KindUnauthenticated:
		writeApiError(w, shared.ApiError{
			Type:   shared.ApiErrorTypeUnauthenticated,
			Status: http.StatusUnauthorized,
			Msg:    mrrErr.Message,
		})
	default:
		writeApiError(w, shared.ApiError{
			Type:   shared.ApiErrorTypeUpstream,
			Status: http.StatusInternalServerError,
			Msg:    mrrErr.Error(),
		})
	}
}

// mrrHandler wraps one marketplace operation: admin only, body decoded with
// numbers kept verbatim, remote data returned under a fixed message.
func (h *Handler) mrrHandler(name, successMsg string, call mrrCall) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("Received a request for %s\n", name)
		if h.authorize(w, r, shared.RoleAdmin) == nil {
			return
		}

		if h.mrr == nil {
			writeApiError(w, shared.ApiError{
				Type:   shared.ApiErrorTypeUpstream,
				Status: http.StatusInternalServerError,
				Msg:    "Marketplace API is not configured",
			})
			return
		}

		var params mrr.Params
		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			dec := json.NewDecoder(r.Body)
			dec.UseNumber()
			if err := dec.Decode(&params); err != nil && err != io.EOF {
				log.Printf("Error parsing request body: %v\n", err)
				writeBadRequest(w, "Invalid request body")
				return
			}
		}

		data, err := call(r.Context(), r, params)
		if err != nil {
			log.Printf("Error in %s: %v\n", name, err)
			writeMrrError(w, err)
			return
		}

		log.Printf("Successfully processed request for %s\n", name)

		writeJson(w, http.StatusOK, mrrResponse{Message: successMsg, Data: data})
	}
}

func (h *Handler) MrrWhoAmIHandler() http.HandlerFunc {
	return h.mrrHandler("MrrWhoAmIHandler", "Account info retrieved successfully",
		func(ctx context.Context, r *http.Request, p mrr.Params) (json.RawMessage, error) {
			return h.mrr.WhoAmI(ctx)
		})
}

func (h *Handler) MrrBalanceHandler() http.HandlerFunc {
	return h.mrrHandler("MrrBalanceHandler", "Balance retrieved successfully",
		func(ctx context.Context, r *http.Request, p mrr.Params) (json.RawMessage, error) {
			return h.mrr.Balance(ctx)
		})
}

func (h *Handler) MrrListPoolsHandler() http.HandlerFunc {
	return h.mrrHandler("MrrListPoolsHandler", "Pools retrieved successfully",
		func(ctx context.Context, r *http.Request, p mrr.Params) (json.RawMessage, error) {
			return h.mrr.ListPools(ctx)
		})
}

func (h *Handler) MrrCreatePoolHandler() http.HandlerFunc {
	return h.mrrHandler("MrrCreatePoolHandler", "Pool created successfully",
		func(ctx context.Context, r *http.Request, p mrr.Params) (json.RawMessage, error) {
			return h.mrr.CreatePool(ctx, p)
		})
}

func (h *Handler) MrrTestPoolHandler() http.HandlerFunc {
	return h.mrrHandler("MrrTestPoolHandler", "Pool tested successfully",
		func(ctx context.Context, r *http.Request, p mrr.Params) (json.RawMessage, error) {
			return h.mrr.TestPool(ctx, p)
		})
}

func (h *Handler) MrrDeletePoolsHandler() http.HandlerFunc {
	return h.mrrHandler("MrrDeletePoolsHandler", "Pools deleted successfully",
		func(ctx context.Context, r *http.Request, p mrr.Params) (json.RawMessage, error) {
			return h.mrr.DeletePools(ctx, mux.Vars(r)["ids"])
		})
}

func (h *Handler) MrrListRigsHandler() http.HandlerFunc {
	return h.mrrHandler("MrrListRigsHandler", "Rigs retrieved successfully",
		func(ctx context.Context, r *http.Request, p mrr.Params) (json.RawMessage, error) {
			q := r.URL.Query()
			return h.mrr.ListRigs(ctx, q.Get("algo"), q.Get("region"))
		})
}

func (h *Handler) MrrGetRigsHandler() http.HandlerFunc {
	return h.mrrHandler("MrrGetRigsHandler", "Rig details retrieved successfully",
		func(ctx context.Context, r *http.Request, p mrr.Params) (json.RawMessage, error) {
			return h.mrr.GetRigs(ctx, mux.Vars(r)["ids"])
		})
}

func (h *Handler) MrrListRentalsHandler() http.HandlerFunc {
	return h.mrrHandler("MrrListRentalsHandler", "Rentals retrieved successfully",
		func(ctx context.Context, r *http.Request, p mrr.Params) (json.RawMessage, error) {
			return h.mrr.ListRentals(ctx)
		})
}

func (h *Handler) MrrCreateRentalHandler() http.HandlerFunc {
	return h.mrrHandler("MrrCreateRentalHandler", "Rental created successfully",
		func(ctx context.Context, r *http.Request, p mrr.Params) (json.RawMessage, error) {
			return h.mrr.CreateRental(ctx, p)
		})
}

func (h *Handler) MrrGetRentalsHandler() http.HandlerFunc {
	return h.mrrHandler("MrrGetRentalsHandler", "Rental details retrieved successfully",
		func(ctx context.Context, r *http.Request, p mrr.Params) (json.RawMessage, error) {
			return h.mrr.GetRentals(ctx, mux.Vars(r)["ids"])
		})
}

func (h *Handler) MrrAttachPoolHandler() http.HandlerFunc {
	return h.mrrHandler("MrrAttachPoolHandler", "Pool attached to rental successfully",
		func(ctx context.Context, r *http.Request, p mrr.Params) (json.RawMessage, error) {
			return h.mrr.AttachPool(ctx, mux.Vars(r)["id"], p)
		})
}

func (h *Handler) MrrListProfilesHandler() http.HandlerFunc {
	return h.mrrHandler("MrrListProfilesHandler", "Profiles retrieved successfully",
		func(ctx context.Context, r *http.Request, p mrr.Params) (json.RawMessage, error) {
			return h.mrr.ListProfiles(ctx)
		})
}

func (h *Handler) MrrCreateProfileHandler() http.HandlerFunc {
	return h.mrrHandler("MrrCreateProfileHandler", "Profile created successfully",
		func(ctx context.Context, r *http.Request, p mrr.Params) (json.RawMessage, error) {
			return h.mrr.CreateProfile(ctx, p)
		})
}

func (h *Handler) MrrGetProfileHandler() http.HandlerFunc {
	return h.mrrHandler("MrrGetProfileHandler", "Profile retrieved successfully",
		func(ctx context.Context, r *http.Request, p mrr.Params) (json.RawMessage, error) {
			return h.mrr.GetProfile(ctx, mux.Vars(r)["id"])
		})
}

func (h *Handler) MrrDeleteProfileHandler() http.HandlerFunc {
	return h.mrrHandler("MrrDeleteProfileHandler", "Profile deleted successfully",
		func(ctx context.Context, r *http.Request, p mrr.Params) (json.RawMessage, error) {
			return h.mrr.DeleteProfile(ctx, mux.Vars(r)["id"])
		})
}
