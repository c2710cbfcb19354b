package verifier

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/frontstep/dealanalyzer/internal/clerk/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSecret() string {
	return "whsec_" + base64.StdEncoding.EncodeToString([]byte("super-secret-signing-key"))
}

func newTestVerifier(t *testing.T, now time.Time) *Verifier {
	t.Helper()
	v, err := New(testSecret())
	require.NoError(t, err)
	v.now = func() time.Time { return now }
	return v
}

func TestVerifyRoundTrip(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := newTestVerifier(t, now)

	payload := []byte(`{"type":"user.created","data":{"id":"u1"}}`)
	sig := v.Sign("msg_1", now, payload)

	assert.NoError(t, v.Verify(payload, "msg_1", "1700000000", sig))

	// The signature is bound to the message id and timestamp, not just
	// the body.
	assert.ErrorIs(t, v.Verify(payload, "msg_2", "1700000000", sig), domain.ErrInvalidSignature)
	assert.ErrorIs(t, v.Verify(payload, "msg_1", "1700000001", sig), domain.ErrInvalidSignature)
}

func TestVerifyRejectsMutatedBody(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := newTestVerifier(t, now)

	payload := []byte(`{"type":"user.created","data":{"id":"u1"}}`)
	sig := v.Sign("msg_1", now, payload)

	for i := range payload {
		mutated := append([]byte(nil), payload...)
		mutated[i] ^= 0x01
		err := v.Verify(mutated, "msg_1", "1700000000", sig)
		assert.ErrorIs(t, err, domain.ErrInvalidSignature, "byte %d", i)
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := newTestVerifier(t, now)

	payload := []byte(`{"type":"user.deleted","data":{"id":"u1"}}`)
	err := v.Verify(payload, "msg_1", "1700000000", "v1,AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=")
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := newTestVerifier(t, now)

	other, err := New("whsec_" + base64.StdEncoding.EncodeToString([]byte("other-key")))
	require.NoError(t, err)

	payload := []byte(`{}`)
	sig := other.Sign("msg_1", now, payload)

	assert.ErrorIs(t, v.Verify(payload, "msg_1", "1700000000", sig), domain.ErrInvalidSignature)
}

func TestVerifyRejectsMissingHeaders(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := newTestVerifier(t, now)

	payload := []byte(`{}`)
	sig := v.Sign("msg_1", now, payload)

	assert.Error(t, v.Verify(payload, "", "1700000000", sig))
	assert.Error(t, v.Verify(payload, "msg_1", "", sig))
	assert.Error(t, v.Verify(payload, "msg_1", "1700000000", ""))
}

func TestVerifyRejectsStaleTimestamp(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := newTestVerifier(t, now)

	payload := []byte(`{}`)
	stale := now.Add(-6 * time.Minute)
	sig := v.Sign("msg_1", stale, payload)

	err := v.Verify(payload, "msg_1", "1699999640", sig)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestVerifyRejectsFutureTimestamp(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := newTestVerifier(t, now)

	payload := []byte(`{}`)
	future := now.Add(6 * time.Minute)
	sig := v.Sign("msg_1", future, payload)

	err := v.Verify(payload, "msg_1", "1700000360", sig)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestVerifyAcceptsAnyMatchingCandidate(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := newTestVerifier(t, now)

	payload := []byte(`{"type":"organization.created"}`)
	good := v.Sign("msg_1", now, payload)

	header := "v1,bm90LXRoZS1zaWduYXR1cmU= v2,aWdub3JlZA== " + good
	assert.NoError(t, v.Verify(payload, "msg_1", "1700000000", header))
}

func TestNewRejectsBadSecret(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)

	_, err = New("whsec_%%%not-base64%%%")
	assert.Error(t, err)
}

func TestNewAcceptsUnprefixedSecret(t *testing.T) {
	raw := base64.StdEncoding.EncodeToString([]byte("super-secret-signing-key"))
	v, err := New(raw)
	require.NoError(t, err)
	v.now = func() time.Time { return time.Unix(1700000000, 0) }

	prefixed := newTestVerifier(t, time.Unix(1700000000, 0))
	payload := []byte(`{}`)
	sig := prefixed.Sign("msg_1", time.Unix(1700000000, 0), payload)

	assert.NoError(t, v.Verify(payload, "msg_1", "1700000000", sig))
}
