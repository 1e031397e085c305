// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

/*
Package auth provides admin authentication for the HTTP API.

Authentication is optional. When no admin username is configured the API
runs open, which suits deployments behind a trusted reverse proxy. When
configured, a single admin credential pair is verified with bcrypt and a
signed JWT session token is issued.

Key Components:

  - JWTManager: HS256 token creation and validation
  - CredentialManager: bcrypt-hashed admin credential verification
  - Middleware: Bearer token enforcement for protected routes

Usage:

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	creds, err := auth.NewCredentialManager(cfg.Security.AdminUsername, cfg.Security.AdminPassword)

	token, err := jwtManager.GenerateToken("admin", "admin")
	claims, err := jwtManager.ValidateToken(token)

Security Characteristics:

  - HMAC-SHA256 signing; tokens with any other algorithm are rejected
  - bcrypt cost 12 with constant time username comparison
  - Tokens are stateless and expire after the configured session timeout
*/
package auth
