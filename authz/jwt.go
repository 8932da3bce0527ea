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

package authz

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/authguard/authguard/session"
)

// JWTBackend carries user information inside the token itself, so it
// never needs authz.Join: the middleware treats this backend's presence
// as satisfying invariant I3 on its own, mirroring the original's
// comment that "jwt token contains user information; it is useless to
// join the token to the user."
type JWTBackend struct {
	secret   []byte
	issuer   string
	accounts map[string]Account
}

type jwtClaims struct {
	jwt.RegisteredClaims
	Group string `json:"group,omitempty"`
	Home  string `json:"home,omitempty"`
}

// NewJWT builds a JWTBackend that signs and verifies HS256 tokens with
// secret, and authenticates the initial (non-token) credential exchange
// against the given static account list.
func NewJWT(secret []byte, issuer string, accounts []Account) (*JWTBackend, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("authz/jwt: a signing secret is required")
	}
	table := make(map[string]Account, len(accounts))
	for _, a := range accounts {
		table[a.User] = a
	}
	return &JWTBackend{secret: secret, issuer: issuer, accounts: table}, nil
}

func (j *JWTBackend) Passwd(_ context.Context, user string) (string, bool) {
	a, ok := j.accounts[user]
	return a.Secret, ok
}

func (j *JWTBackend) Group(_ context.Context, user string) (string, bool) {
	a, ok := j.accounts[user]
	return a.Group, ok && a.Group != ""
}

func (j *JWTBackend) Home(_ context.Context, user string) (string, bool) {
	a, ok := j.accounts[user]
	return a.Home, ok && a.Home != ""
}

func (j *JWTBackend) Close() error { return nil }

// GenerateToken signs sess's identity into a JWT, satisfying the
// TokenGenerator capability the middleware prefers over the default
// 24-byte random generator whenever a JWT backend is configured.
func (j *JWTBackend) GenerateToken(_ context.Context, sess *session.Session, expire time.Duration) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.User,
			Issuer:    j.issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Group: sess.Group,
		Home:  sess.Home,
	}
	if expire != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(expire))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

// SetSession decodes token directly into a Session, the JWT-specific
// replacement for the authz.Join/Check round trip through storage.
func (j *JWTBackend) SetSession(_ context.Context, token string) (*session.Session, bool) {
	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("authz/jwt: unexpected signing method %v", t.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, false
	}
	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok {
		return nil, false
	}
	return &session.Session{
		User:  claims.Subject,
		Group: claims.Group,
		Home:  claims.Home,
		Type:  "jwt",
		Token: token,
	}, true
}

// Interface guards.
var (
	_ Backend         = (*JWTBackend)(nil)
	_ GroupResolver   = (*JWTBackend)(nil)
	_ HomeResolver    = (*JWTBackend)(nil)
	_ TokenGenerator  = (*JWTBackend)(nil)
	_ SessionSetter   = (*JWTBackend)(nil)
)
