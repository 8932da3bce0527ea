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

// Package authn models the authentication scheme driver family: the
// wire-level protocol by which credentials are conveyed and verified.
package authn

import (
	"context"
	"net/http"

	"github.com/authguard/authguard/hash"
)

// Scheme names an authn driver the way the original "str_authenticate_types"
// table did.
type Scheme string

const (
	None   Scheme = "None"
	Basic  Scheme = "Basic"
	Digest Scheme = "Digest"
	Bearer Scheme = "Bearer"
	OAuth2 Scheme = "oAuth2"
)

// Driver is the capability set a scheme must provide. Setup is optional
// in the original (a nil function pointer); here a driver that needs no
// per-client state simply does not implement ClientSetup.
type Driver interface {
	// Scheme is this driver's wire-level scheme name, matched against
	// the first token of the Authorization header/cookie.
	Scheme() Scheme

	// Check verifies credential (the substring of Authorization after
	// the scheme name) for method/uri against the backend, returning the
	// authenticated user name, or "" if verification failed.
	Check(ctx context.Context, method, uri, credential string) (user string, ok bool)

	// Challenge writes whatever the scheme needs on response (typically
	// WWW-Authenticate) and returns true if it fully handled the
	// response itself (the DONE state in §4.3), false if the core should
	// apply its own default challenge/redirect policy (CONTINUE).
	Challenge(w http.ResponseWriter, r *http.Request) (handled bool)

	// Close releases driver resources.
	Close() error
}

// ClientSetup is an optional capability: drivers that need fresh
// per-client state implement this; the middleware calls it once per
// accepted connection, from (*middleware.Module).ConnContext, with the
// peer address. None of the drivers in this package implement it
// (DigestDriver mints its nonces in Challenge instead).
type ClientSetup interface {
	Setup(peerAddr string)
}

// HashBinder is an optional capability: drivers whose credential
// comparison depends on a one-way hash (Basic, Digest) implement this
// so the core can bind the Config.Algo-resolved hash.Hash at
// construction, per §4.5 step 4's "bind hash (per §4.1 fallback)".
// Drivers with no hash dependency (Bearer, OAuth2, None) simply don't
// implement it; the core skips the bind silently.
type HashBinder interface {
	SetHash(h *hash.Hash)
}
