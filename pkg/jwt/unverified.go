package jwt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken is returned for credentials that are not three dot-separated segments
var ErrMalformedToken = errors.New("malformed token")

// identifierClaims lists the claims holding a user id, in precedence order
var identifierClaims = []string{"sub", "user_id", "id"}

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// DecodeUnverified decodes the payload segment of a token WITHOUT checking its signature.
// Only the middle segment is decoded; missing base64 padding is restored first.
func DecodeUnverified(token string) (jwt.MapClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, ErrMalformedToken
	}

	payload, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}

	var claims jwt.MapClaims
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse payload: %w", err)
	}
	if claims == nil {
		return nil, fmt.Errorf("payload is not an object")
	}
	return claims, nil
}

// IdentityFromClaims returns the first non-empty of sub, user_id and id together with email
func IdentityFromClaims(claims jwt.MapClaims) (id, email string) {
	for _, key := range identifierClaims {
		if v := claimString(claims[key]); v != "" {
			id = v
			break
		}
	}
	if id == "" {
		return "", ""
	}
	return id, claimString(claims["email"])
}

func claimString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}
