// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides bearer-token issuance and verification.

# Tokens

Tokens are HS256 JWTs carrying a single domain claim, the opaque user id:

	token, err := auth.IssueToken(userID, secret, auth.DefaultTokenTTL)
	userID, err := auth.ParseToken(token, secret)

Credential verification (passwords, SSO, whatever the deployment uses)
happens in the external auth system that issues these tokens; this core
only needs the user id back out, and trusts it once the signature checks.

# Extraction

Two transports carry tokens. Regular API requests use the Authorization
header, extracted with BearerToken. Websocket upgrades cannot set headers
from a browser, so the ws handler reads the token from the ?token= query
parameter instead and passes it to ParseToken directly.

ParseToken returns ErrInvalidToken for every failure mode (bad signature,
expiry, wrong algorithm, missing claim); callers respond 401 without
distinguishing.
*/
package auth
