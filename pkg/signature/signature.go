// Package signature verifies the timestamped HMAC-SHA256 signatures that the
// voice platform attaches to webhook deliveries.
//
// The header has the form "t=<unix seconds>,v0=<hex digest>" where the digest
// is HMAC-SHA256(secret, "<unix seconds>.<raw body>").
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	// HeaderName is the request header carrying the signature.
	HeaderName = "ElevenLabs-Signature"

	// Tolerance is the maximum accepted age of a signed timestamp.
	Tolerance = 30 * time.Minute

	versionPrefix   = "v0="
	timestampPrefix = "t="
)

var (
	ErrMissingHeader     = errors.New("missing signature header")
	ErrMalformedHeader   = errors.New("malformed signature header")
	ErrStaleTimestamp    = errors.New("stale signature timestamp")
	ErrSignatureMismatch = errors.New("signature mismatch")
)

// Check validates header against body and secret at the given time and
// returns the reason for any rejection. Timestamps in the future are accepted.
func Check(body []byte, header, secret string, now time.Time) error {
	if header == "" {
		return ErrMissingHeader
	}

	parts := strings.Split(header, ",")
	if len(parts) != 2 {
		return ErrMalformedHeader
	}

	rawTS, ok := strings.CutPrefix(strings.TrimSpace(parts[0]), timestampPrefix)
	if !ok {
		return ErrMalformedHeader
	}

	ts, err := strconv.ParseInt(rawTS, 10, 64)
	if err != nil {
		return ErrMalformedHeader
	}

	if ts < now.Add(-Tolerance).Unix() {
		return ErrStaleTimestamp
	}

	expected := versionPrefix + digest(body, rawTS, secret)
	if !hmac.Equal([]byte(expected), []byte(strings.TrimSpace(parts[1]))) {
		return ErrSignatureMismatch
	}

	return nil
}

// Verify reports whether header is a valid signature of body.
func Verify(body []byte, header, secret string, now time.Time) bool {
	return Check(body, header, secret, now) == nil
}

// Sign produces a header value for body signed at t.
func Sign(body []byte, secret string, t time.Time) string {
	ts := strconv.FormatInt(t.Unix(), 10)
	return timestampPrefix + ts + "," + versionPrefix + digest(body, ts, secret)
}

func digest(body []byte, ts, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(ts))
	_, _ = mac.Write([]byte("."))
	_, _ = mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
