// Package verifier implements Svix webhook signature verification for the
// Clerk endpoint.
package verifier

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/frontstep/dealanalyzer/internal/clerk/domain"
)

const secretPrefix = "whsec_"

// DefaultTolerance is the allowed clock skew on svix-timestamp.
const DefaultTolerance = 5 * time.Minute

// Verifier checks that a raw payload was signed by the provider with the
// shared secret. Verification must run over the exact raw bytes as
// received; any re-serialization breaks the signature.
type Verifier struct {
	key       []byte
	tolerance time.Duration
	now       func() time.Time
}

// New builds a Verifier from a whsec_-prefixed, base64-encoded secret.
func New(secret string) (*Verifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, fmt.Errorf("webhook secret is required")
	}
	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, secretPrefix))
	if err != nil {
		return nil, fmt.Errorf("decode webhook secret: %w", err)
	}

	return &Verifier{
		key:       key,
		tolerance: DefaultTolerance,
		now:       time.Now,
	}, nil
}

// Verify validates payload against the three svix headers. It returns
// domain.ErrInvalidSignature on any failure; callers must not decode the
// payload afterwards.
func (v *Verifier) Verify(payload []byte, msgID, timestamp, signature string) error {
	msgID = strings.TrimSpace(msgID)
	timestamp = strings.TrimSpace(timestamp)
	signature = strings.TrimSpace(signature)
	if msgID == "" || timestamp == "" || signature == "" {
		return domain.ErrInvalidSignature
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return domain.ErrInvalidSignature
	}
	skew := v.now().Sub(time.Unix(ts, 0))
	if skew > v.tolerance || skew < -v.tolerance {
		return domain.ErrInvalidSignature
	}

	expected := v.sign(msgID, timestamp, payload)
	for _, candidate := range strings.Fields(signature) {
		version, sig, found := strings.Cut(candidate, ",")
		if !found || version != "v1" {
			continue
		}
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return nil
		}
	}

	return domain.ErrInvalidSignature
}

// Sign produces a svix-signature header value for payload. Used by tests
// and local replay tooling.
func (v *Verifier) Sign(msgID string, at time.Time, payload []byte) string {
	return "v1," + v.sign(msgID, strconv.FormatInt(at.Unix(), 10), payload)
}

func (v *Verifier) sign(msgID, timestamp string, payload []byte) string {
	mac := hmac.New(sha256.New, v.key)
	fmt.Fprintf(mac, "%s.%s.", msgID, timestamp)
	mac.Write(payload)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
