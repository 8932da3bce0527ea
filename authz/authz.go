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

// Package authz models the authorization backend driver family: the
// store that maps user names to secrets, groups, home directories, and
// optional session tokens. Each backend declares, by which interfaces it
// additionally satisfies, which of the optional capabilities (group,
// home, join, check, setsession) it supports; the core probes for these
// with a type assertion instead of a nullable function-pointer slot.
package authz

import (
	"context"
	"time"

	"github.com/authguard/authguard/session"
)

// Backend is the mandatory capability every authz driver must provide:
// looking up the stored secret to verify credentials against.
type Backend interface {
	// Passwd returns the stored secret to match credentials against, and
	// true if the user exists. The secret's shape (plaintext, HA1 digest,
	// bcrypt hash, ...) is backend- and scheme-specific.
	Passwd(ctx context.Context, user string) (secret string, ok bool)

	// Close releases any resources the backend holds (file handles, DB
	// connections). Backends with nothing to release may no-op.
	Close() error
}

// GroupResolver is an optional capability: backends that can resolve a
// user's group implement this.
type GroupResolver interface {
	Group(ctx context.Context, user string) (group string, ok bool)
}

// HomeResolver is an optional capability: backends that can resolve a
// user's home directory implement this.
type HomeResolver interface {
	Home(ctx context.Context, user string) (home string, ok bool)
}

// TokenJoiner is an optional capability: backends that can durably
// associate a minted token with a user implement this. Its absence (and
// the absence of a JWT driver) is what makes the core clear TokenE per
// invariant I3.
type TokenJoiner interface {
	Join(ctx context.Context, user, token string, expire time.Duration) error
}

// TokenChecker is an optional capability: backends that can resolve a
// token back to the user it was joined to implement this.
type TokenChecker interface {
	Check(ctx context.Context, user, token string) (resolvedUser string, ok bool)
}

// SessionSetter is an optional capability specific to self-contained
// tokens (JWT): instead of a Join/Check round trip through storage, the
// backend decodes the token directly into a Session.
type SessionSetter interface {
	SetSession(ctx context.Context, token string) (*session.Session, bool)
}

// TokenGenerator is implemented by backends (JWT) that must mint their
// own tokens rather than use the default 24-byte random generator,
// because the token itself carries the claims.
type TokenGenerator interface {
	GenerateToken(ctx context.Context, sess *session.Session, expire time.Duration) (string, error)
}

// Kind names an authz backend the way the original engine table did
// ("simple", "file", "unix", "sqlite", "jwt").
type Kind string

const (
	Simple Kind = "simple"
	File   Kind = "file"
	Unix   Kind = "unix"
	SQLite Kind = "sqlite"
	JWT    Kind = "jwt"
)

// HasGroup, HasHome, HasJoin, HasCheck, and HasSetSession report whether
// a backend implements the corresponding optional capability, mirroring
// the original's "driver entry is null" probes.
func HasGroup(b Backend) (GroupResolver, bool)         { r, ok := b.(GroupResolver); return r, ok }
func HasHome(b Backend) (HomeResolver, bool)           { r, ok := b.(HomeResolver); return r, ok }
func HasJoin(b Backend) (TokenJoiner, bool)            { r, ok := b.(TokenJoiner); return r, ok }
func HasCheck(b Backend) (TokenChecker, bool)          { r, ok := b.(TokenChecker); return r, ok }
func HasSetSession(b Backend) (SessionSetter, bool)    { r, ok := b.(SessionSetter); return r, ok }
func HasGenerator(b Backend) (TokenGenerator, bool)    { r, ok := b.(TokenGenerator); return r, ok }
