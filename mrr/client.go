package mrr

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
)

const DefaultBaseUrl = "https://www.miningrigrentals.com/api/v2"

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type errorData struct {
	Message string `json:"message"`
}

type Client struct {
	baseUrl string
	signer  *Signer
	doer    Doer
	debug   bool
}

type Option func(*Client)

func WithDoer(d Doer) Option {
	return func(c *Client) { c.doer = d }
}

func WithDebug(debug bool) Option {
	return func(c *Client) { c.debug = debug }
}

func NewClient(baseUrl string, signer *Signer, opts ...Option) *Client {
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}
	c := &Client{
		baseUrl: strings.TrimRight(baseUrl, "/"),
		signer:  signer,
		doer:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Call issues exactly one signed request and returns the envelope's data.
// Failed calls are never retried.
func (c *Client) Call(ctx context.Context, method, endpoint string, body interface{}) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "error marshalling marketplace request")
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseUrl+endpoint, reader)
	if err != nil {
		return nil, errors.Wrap(err, "error creating marketplace request")
	}

	c.signer.Sign(endpoint).Apply(req.Header)
	req.Header.Set("Content-Type", "application/json")

	log.Printf("mrr: %s %s\n", method, endpoint)

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindUpstream, Message: "error calling marketplace: " + err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindUpstream, Status: resp.StatusCode, Message: "error reading marketplace response: " + err.Error()}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, newRemoteError(resp.StatusCode, "")
		}
		return nil, &Error{Kind: KindUpstream, Status: resp.StatusCode, Message: "invalid marketplace response"}
	}

	if c.debug {
		log.Printf("mrr response (%d):\n%s", resp.StatusCode, spew.Sdump(env))
	}

	failed := resp.StatusCode < 200 || resp.StatusCode > 299 || (env.Success != nil && !*env.Success)
	if !failed {
		return env.Data, nil
	}

	var data errorData
	if len(env.Data) > 0 {
		// data may be a non-object on failure, in which case the message stays empty
		_ = json.Unmarshal(env.Data, &data)
	}

	mrrErr := newRemoteError(resp.StatusCode, data.Message)
	log.Printf("mrr error: %v\n", mrrErr)
	return nil, mrrErr
}
