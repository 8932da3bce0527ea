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

package authn

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/authguard/authguard/authz"
	"github.com/authguard/authguard/hash"
)

// BasicDriver implements RFC 7617 Basic authentication. The stored
// secret may be a bcrypt hash (caddy's convention, recognized by the
// "$2" prefix, compared with golang.org/x/crypto/bcrypt), or a digest
// computed with the configured Hash, or plaintext — compared in
// constant time either way.
type BasicDriver struct {
	backend authz.Backend
	hash    *hash.Hash
	realm   string
}

// NewBasic builds a Basic driver over backend, optionally hashing
// candidate passwords with h before comparison (nil means compare
// plaintext/bcrypt only).
func NewBasic(backend authz.Backend, h *hash.Hash, realm string) *BasicDriver {
	if realm == "" {
		realm = "restricted"
	}
	return &BasicDriver{backend: backend, hash: h, realm: realm}
}

func (b *BasicDriver) Scheme() Scheme { return Basic }

// SetHash implements HashBinder: it rebinds the hash used for non-bcrypt,
// non-plaintext secret comparison.
func (b *BasicDriver) SetHash(h *hash.Hash) { b.hash = h }

func (b *BasicDriver) Check(ctx context.Context, _, _ string, credential string) (string, bool) {
	raw, err := base64.StdEncoding.DecodeString(credential)
	if err != nil {
		return "", false
	}
	user, password, ok := strings.Cut(string(raw), ":")
	if !ok {
		return "", false
	}

	secret, exists := b.backend.Passwd(ctx, user)
	// don't return early when the account doesn't exist: avoid leaking
	// account existence through a timing side channel.
	same := b.compare(secret, password)
	if !same || !exists {
		return "", false
	}
	return user, true
}

func (b *BasicDriver) compare(secret, password string) bool {
	switch {
	case strings.HasPrefix(secret, "$2"):
		return bcrypt.CompareHashAndPassword([]byte(secret), []byte(password)) == nil
	case b.hash != nil:
		h := b.hash.New()
		h.Write([]byte(password))
		return subtle.ConstantTimeCompare([]byte(secret), []byte(hex.EncodeToString(h.Sum(nil)))) == 1
	default:
		return subtle.ConstantTimeCompare([]byte(secret), []byte(password)) == 1
	}
}

func (b *BasicDriver) Challenge(w http.ResponseWriter, _ *http.Request) bool {
	w.Header().Set("WWW-Authenticate", fmt.Sprintf(`Basic realm="%s"`, b.realm))
	return false
}

func (b *BasicDriver) Close() error { return nil }

var _ Driver = (*BasicDriver)(nil)
