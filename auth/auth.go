// Copyright (c) 2025 Daniel Paiva.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"github.com/dhpaiva/plenario/models"
)

var (
	ErrInvalidToken   = errors.New("invalid identity token")
	ErrMissingVoterID = errors.New("identity token has no voter id")
)

// Identity is what the external identity service resolves for an
// authenticated user. Role is an opaque capability tag; the core only
// uses it to gate operations.
type Identity struct {
	VoterID string `json:"voter_id"`
	Label   string `json:"label"`
	Role    string `json:"role"`
}

// SignIdentity mints a token for an identity: base64url(payload) plus
// an HMAC-SHA256 signature over the payload. The identity service and
// this server share the salt; the token format is the whole contract
// between them.
func SignIdentity(id Identity, salt string) (string, error) {
	payload, err := json.Marshal(id)
	if err != nil {
		return "", err
	}
	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return encoded + "." + sign(encoded, salt), nil
}

// ParseIdentity validates and decodes a token. A token with an empty
// role defaults to voter (the identity collaborator contract); an
// explicit unknown role is preserved for the caller to reject.
func ParseIdentity(token, salt string) (Identity, error) {
	encoded, sig, ok := strings.Cut(token, ".")
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	if !hmac.Equal([]byte(sig), []byte(sign(encoded, salt))) {
		return Identity{}, ErrInvalidToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	var id Identity
	if err := json.Unmarshal(payload, &id); err != nil {
		return Identity{}, ErrInvalidToken
	}
	if id.VoterID == "" {
		return Identity{}, ErrMissingVoterID
	}
	if id.Role == "" {
		id.Role = models.RoleVoter
	}
	return id, nil
}

// sign computes the URL-safe HMAC signature of the encoded payload.
func sign(encoded, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(encoded))
	return strings.TrimRight(base64.URLEncoding.EncodeToString(h.Sum(nil)), "=")
}
