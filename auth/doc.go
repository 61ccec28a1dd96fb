// Copyright (c) 2025 Daniel Paiva.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth defines the identity token contract with the external
identity service.

# Identity Tokens

The identity service authenticates users (credentials are out of the
core's scope) and mints a token carrying the resolved identity:

	token, err := auth.SignIdentity(auth.Identity{
		VoterID: uid,
		Label:   email,
		Role:    "voter",
	}, salt)

The server validates and decodes it on every gated request:

	id, err := auth.ParseIdentity(r.Header.Get("X-Identity-Token"), salt)

Tokens are base64url(JSON payload) + "." + HMAC-SHA256 signature,
keyed by the shared IDENTITY_TOKEN_SALT. The server never stores
tokens; validation is purely cryptographic.

# Roles

Role is an opaque capability tag. An empty role defaults to voter;
an explicit role outside {admin, voter, observer} is preserved so the
view dispatch can reject it as no_valid_role rather than silently
falling through.
*/
package auth
