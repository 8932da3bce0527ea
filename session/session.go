// Copyright 2024 The Authguard Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package session holds the per-authenticated-client identity record
// ("authsession" in the middleware this package models) and the request
// context key downstream handlers use to read it.
package session

import (
	"context"
	"net/http"
)

// contextKey namespaces the value this package stores on a request
// context, the Go analogue of the "auth" session slot key.
type contextKey struct{}

var authKey = contextKey{}

// Session is the identity record attached to a request once a client has
// authenticated. Requests admitted anonymously to an unprotected path
// carry no Session.
type Session struct {
	// User is the authenticated user name. It is not truncated; see
	// MaxUserLength for the original's fixed buffer width.
	User string
	// Group is the user's primary group, if the authz backend resolves one.
	Group string
	// Home is the user's home directory, if the authz backend resolves one.
	Home string
	// Type is the authn scheme name that produced this session ("Basic",
	// "Digest", "Bearer", "oAuth2"; "None" never produces a session).
	Type string
	// Token is the opaque session token minted for this client, if token
	// issuance is enabled. Empty when token issuance is disabled.
	Token string
}

// MaxUserLength mirrors the original fixed-width user buffer; it's
// informational here (Go strings aren't bounded), used only by backends
// that want to reject pathologically long user names up front.
const MaxUserLength = 32

// WithSession returns a copy of ctx carrying sess under the auth session
// key, for the connector to attach to the request it admits.
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, authKey, sess)
}

// FromRequest returns the Session attached to r, if any. Downstream
// handlers call this instead of re-deriving identity from headers.
func FromRequest(r *http.Request) (*Session, bool) {
	sess, ok := r.Context().Value(authKey).(*Session)
	return sess, ok && sess != nil
}
