package mrr

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const (
	HeaderApiKey = "x-api-key"
	HeaderNonce  = "x-api-nonce"
	HeaderSign   = "x-api-sign"
)

type Headers struct {
	ApiKey    string
	Nonce     string
	Signature string
}

func (h Headers) Apply(header http.Header) {
	header.Set(HeaderApiKey, h.ApiKey)
	header.Set(HeaderNonce, h.Nonce)
	header.Set(HeaderSign, h.Signature)
}

// Signer produces MiningRigRentals v2 auth headers. Nonces are millisecond
// timestamps, strictly increasing for the lifetime of the Signer.
type Signer struct {
	apiKey string
	secret []byte
	now    func() time.Time

	mu        sync.Mutex
	lastNonce int64
}

func NewSigner(apiKey, secret string) *Signer {
	return &Signer{
		apiKey: apiKey,
		secret: []byte(secret),
		now:    time.Now,
	}
}

func (s *Signer) nextNonce() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	nonce := s.now().UnixMilli()
	if nonce <= s.lastNonce {
		nonce = s.lastNonce + 1
	}
	s.lastNonce = nonce
	return nonce
}

// Sign signs endpoint, the path plus query string exactly as it will be sent.
func (s *Signer) Sign(endpoint string) Headers {
	nonce := strconv.FormatInt(s.nextNonce(), 10)

	return Headers{
		ApiKey:    s.apiKey,
		Nonce:     nonce,
		Signature: Signature(s.secret, s.apiKey+nonce+endpoint),
	}
}

func Signature(secret []byte, message string) string {
	mac := hmac.New(sha1.New, secret)
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}
