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
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/authguard/authguard/authz"
	"github.com/authguard/authguard/hash"
)

// nonceState tracks one outstanding server nonce: the replay-counter
// high-water mark it has accepted, and when it was issued. Grounded on
// caddyhttp/digestauth/digest.go's Nonce/NonceStore pair, simplified to
// a monotonic counter check instead of a full sliding window.
type nonceState struct {
	issued  time.Time
	highest uint64
}

// DigestDriver implements RFC 2617/7616 Digest authentication: HA1/HA2
// with the configured Hash (MD5 by default, as the stored secret format
// dictates), qop=auth, and optional *-sess algorithm variants.
type DigestDriver struct {
	backend authz.Backend
	hash    *hash.Hash
	realm   string
	ttl     time.Duration

	mu     sync.Mutex
	nonces map[string]*nonceState
}

// NewDigest builds a Digest driver over backend, whose Passwd must
// return HA1 = Hash(user:realm:password) hex-encoded, the standard
// htdigest storage convention.
func NewDigest(backend authz.Backend, h *hash.Hash, realm string) *DigestDriver {
	if h == nil {
		h, _ = hash.Default("md5")
	}
	if realm == "" {
		realm = "restricted"
	}
	return &DigestDriver{
		backend: backend,
		hash:    h,
		realm:   realm,
		ttl:     5 * time.Minute,
		nonces:  make(map[string]*nonceState),
	}
}

func (d *DigestDriver) Scheme() Scheme { return Digest }

// SetHash implements HashBinder: it rebinds the hash HA1/HA2 are
// computed with. Outstanding nonces are unaffected; only future
// Challenge/Check calls use the new hash.
func (d *DigestDriver) SetHash(h *hash.Hash) {
	if h == nil {
		return
	}
	d.hash = h
}

func (d *DigestDriver) newNonce() string {
	n := uuid.NewString()
	d.mu.Lock()
	d.nonces[n] = &nonceState{issued: time.Now()}
	d.mu.Unlock()
	return n
}

func (d *DigestDriver) acceptCounter(nonce string, nc uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	state, ok := d.nonces[nonce]
	if !ok {
		return false
	}
	if time.Since(state.issued) > d.ttl {
		delete(d.nonces, nonce)
		return false
	}
	if nc <= state.highest {
		return false
	}
	state.highest = nc
	return true
}

func parseDigestParams(credential string) map[string]string {
	params := make(map[string]string)
	for _, part := range strings.Split(credential, ",") {
		part = strings.TrimSpace(part)
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		params[strings.TrimSpace(kv[0])] = strings.Trim(strings.TrimSpace(kv[1]), `"`)
	}
	return params
}

func (d *DigestDriver) hex(parts ...string) string {
	h := d.hash.New()
	h.Write([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(h.Sum(nil))
}

func (d *DigestDriver) Check(ctx context.Context, method, uri, credential string) (string, bool) {
	p := parseDigestParams(credential)
	user, realm, nonce, response := p["username"], p["realm"], p["nonce"], p["response"]
	qop, cnonce, nc := p["qop"], p["cnonce"], p["nc"]
	if user == "" || realm == "" || nonce == "" || response == "" {
		return "", false
	}

	ha1, ok := d.backend.Passwd(ctx, user)
	if !ok {
		return "", false
	}
	if p["algorithm"] == "MD5-sess" || strings.HasSuffix(p["algorithm"], "-sess") {
		ha1 = d.hex(ha1, nonce, cnonce)
	}

	ha2 := d.hex(method, uri)

	var expected string
	if qop == "auth" || qop == "auth-int" {
		if nc == "" || cnonce == "" {
			return "", false
		}
		ncVal, err := strconv.ParseUint(nc, 16, 64)
		if err != nil || !d.acceptCounter(nonce, ncVal) {
			return "", false
		}
		expected = d.hex(ha1, nonce, nc, cnonce, qop, ha2)
	} else {
		if !d.acceptCounter(nonce, 1) {
			return "", false
		}
		expected = d.hex(ha1, nonce, ha2)
	}

	if subtle.ConstantTimeCompare([]byte(response), []byte(expected)) != 1 {
		return "", false
	}
	return user, true
}

func (d *DigestDriver) Challenge(w http.ResponseWriter, _ *http.Request) bool {
	nonce := d.newNonce()
	algo := "MD5"
	if d.hash != nil && d.hash.Name != "md5" {
		algo = strings.ToUpper(d.hash.Name)
	}
	w.Header().Set("WWW-Authenticate", fmt.Sprintf(
		`Digest realm="%s", algorithm=%s, qop="auth", nonce="%s"`,
		d.realm, algo, nonce))
	return false
}

func (d *DigestDriver) Close() error { return nil }

var _ Driver = (*DigestDriver)(nil)
