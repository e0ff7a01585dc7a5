package mrr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

const rigSearchCount = "20"

type Caller interface {
	Call(ctx context.Context, method, endpoint string, body interface{}) (json.RawMessage, error)
}

// Service holds one method per proxied marketplace capability. Each method
// validates its inputs before any outbound call is made.
type Service struct {
	client Caller
}

func NewService(client Caller) *Service {
	return &Service{client: client}
}

// pathSegment escapes an id for use as one path segment. ';' separates
// multiple ids and stays literal.
func pathSegment(s string) string {
	return strings.ReplaceAll(url.PathEscape(s), "%3B", ";")
}

func (s *Service) WhoAmI(ctx context.Context) (json.RawMessage, error) {
	return s.client.Call(ctx, http.MethodGet, "/whoami", nil)
}

func (s *Service) Balance(ctx context.Context) (json.RawMessage, error) {
	return s.client.Call(ctx, http.MethodGet, "/account/balance", nil)
}

func (s *Service) ListPools(ctx context.Context) (json.RawMessage, error) {
	return s.client.Call(ctx, http.MethodGet, "/account/pool", nil)
}

func (s *Service) CreatePool(ctx context.Context, p Params) (json.RawMessage, error) {
	if err := p.Require("algo", "name", "host", "port", "user"); err != nil {
		return nil, err
	}

	return s.client.Call(ctx, http.MethodPut, "/account/pool", map[string]interface{}{
		"type": p.Get("algo"),
		"name": p.Get("name"),
		"host": p.Get("host"),
		"port": p.Get("port"),
		"user": p.Get("user"),
		"pass": p.Get("pass"),
	})
}

func (s *Service) TestPool(ctx context.Context, p Params) (json.RawMessage, error) {
	if err := p.Require("algo", "host", "port"); err != nil {
		return nil, err
	}

	return s.client.Call(ctx, http.MethodPut, "/account/pool/test", map[string]interface{}{
		"method": "full",
		"type":   p.Get("algo"),
		"host":   p.Get("host"),
		"port":   p.Get("port"),
		"user":   p.Get("user"),
		"pass":   p.Get("pass"),
	})
}

// DeletePools accepts a single id or a semicolon-delimited list, sent as is.
func (s *Service) DeletePools(ctx context.Context, ids string) (json.RawMessage, error) {
	if err := requireValue("ids", ids); err != nil {
		return nil, err
	}
	return s.client.Call(ctx, http.MethodDelete, "/account/pool/"+pathSegment(ids), nil)
}

func (s *Service) ListRigs(ctx context.Context, algo, region string) (json.RawMessage, error) {
	if err := requireValue("algo", algo); err != nil {
		return nil, err
	}

	// keep parameter order stable; the signature covers the query string
	query := "type=" + url.QueryEscape(algo) + "&count=" + rigSearchCount
	if region = strings.TrimSpace(region); region != "" {
		query += "&" + url.QueryEscape("region."+region) + "=true"
	}

	return s.client.Call(ctx, http.MethodGet, "/rig?"+query, nil)
}

func (s *Service) GetRigs(ctx context.Context, ids string) (json.RawMessage, error) {
	if err := requireValue("ids", ids); err != nil {
		return nil, err
	}
	return s.client.Call(ctx, http.MethodGet, "/rig/"+pathSegment(ids), nil)
}

func (s *Service) ListRentals(ctx context.Context) (json.RawMessage, error) {
	return s.client.Call(ctx, http.MethodGet, "/rental?type=renter", nil)
}

func (s *Service) CreateRental(ctx context.Context, p Params) (json.RawMessage, error) {
	if err := p.Require("rigId", "length", "profileId"); err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"rig":     p.Get("rigId"),
		"length":  p.Get("length"),
		"profile": p.Get("profileId"),
	}
	if present(p.Get("currency")) {
		body["currency"] = p.Get("currency")
	}

	return s.client.Call(ctx, http.MethodPut, "/rental", body)
}

func (s *Service) GetRentals(ctx context.Context, ids string) (json.RawMessage, error) {
	if err := requireValue("ids", ids); err != nil {
		return nil, err
	}
	return s.client.Call(ctx, http.MethodGet, "/rental/"+pathSegment(ids), nil)
}

func (s *Service) AttachPool(ctx context.Context, rentalId string, p Params) (json.RawMessage, error) {
	if err := requireValue("id", rentalId); err != nil {
		return nil, err
	}
	if err := p.Require("host", "port", "user"); err != nil {
		return nil, err
	}

	return s.client.Call(ctx, http.MethodPut, "/rental/"+pathSegment(rentalId)+"/pool", map[string]interface{}{
		"host": p.Get("host"),
		"port": p.Get("port"),
		"user": p.Get("user"),
		"pass": p.Get("pass"),
	})
}

func (s *Service) ListProfiles(ctx context.Context) (json.RawMessage, error) {
	return s.client.Call(ctx, http.MethodGet, "/account/profile", nil)
}

func (s *Service) CreateProfile(ctx context.Context, p Params) (json.RawMessage, error) {
	if err := p.Require("name", "algo"); err != nil {
		return nil, err
	}

	return s.client.Call(ctx, http.MethodPut, "/account/profile", map[string]interface{}{
		"name": p.Get("name"),
		"algo": p.Get("algo"),
	})
}

func (s *Service) GetProfile(ctx context.Context, id string) (json.RawMessage, error) {
	if err := requireValue("id", id); err != nil {
		return nil, err
	}
	return s.client.Call(ctx, http.MethodGet, "/account/profile/"+pathSegment(id), nil)
}

func (s *Service) DeleteProfile(ctx context.Context, id string) (json.RawMessage, error) {
	if err := requireValue("id", id); err != nil {
		return nil, err
	}
	return s.client.Call(ctx, http.MethodDelete, "/account/profile/"+pathSegment(id), nil)
}
