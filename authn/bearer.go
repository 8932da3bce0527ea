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
	"fmt"
	"net/http"

	"github.com/authguard/authguard/authz"
)

// BearerDriver implements RFC 6750 Bearer authentication. The credential
// is an opaque or self-contained (JWT) token; which it is depends on the
// paired authz backend: a backend implementing authz.SessionSetter (the
// JWT backend) decodes it directly, otherwise it's resolved as a
// pre-provisioned token via authz.TokenChecker.
type BearerDriver struct {
	backend authz.Backend
	realm   string
}

func NewBearer(backend authz.Backend, realm string) *BearerDriver {
	if realm == "" {
		realm = "restricted"
	}
	return &BearerDriver{backend: backend, realm: realm}
}

func (b *BearerDriver) Scheme() Scheme { return Bearer }

func (b *BearerDriver) Check(ctx context.Context, _, _ string, credential string) (string, bool) {
	if setter, ok := authz.HasSetSession(b.backend); ok {
		sess, ok := setter.SetSession(ctx, credential)
		if !ok {
			return "", false
		}
		return sess.User, true
	}
	if checker, ok := authz.HasCheck(b.backend); ok {
		return checker.Check(ctx, "", credential)
	}
	return "", false
}

func (b *BearerDriver) Challenge(w http.ResponseWriter, _ *http.Request) bool {
	w.Header().Set("WWW-Authenticate", fmt.Sprintf(`Bearer realm="%s"`, b.realm))
	return false
}

func (b *BearerDriver) Close() error { return nil }

var _ Driver = (*BearerDriver)(nil)
