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
	"net/http"

	"golang.org/x/oauth2"

	"github.com/authguard/authguard/authz"
)

// OAuth2Driver implements the oAuth2 scheme: the carried credential is
// the access token issued by the configured provider, verified the same
// way a Bearer token is (via the paired authz backend), but a failed
// Challenge doesn't just emit WWW-Authenticate — it redirects the
// browser into the provider's authorization endpoint, which is the
// DONE path §4.3 describes ("the driver has already written the
// response").
type OAuth2Driver struct {
	backend authz.Backend
	config  *oauth2.Config
	state   string
}

// NewOAuth2 builds an oAuth2 driver. config describes the provider
// (AuthURL/TokenURL/ClientID/ClientSecret/RedirectURL/Scopes); state is
// the fixed anti-CSRF state value used for the authorization redirect
// (a real deployment would mint one per session, but the core's
// connector is deliberately not a session store beyond the authsession
// itself).
func NewOAuth2(backend authz.Backend, config *oauth2.Config, state string) *OAuth2Driver {
	return &OAuth2Driver{backend: backend, config: config, state: state}
}

func (o *OAuth2Driver) Scheme() Scheme { return OAuth2 }

func (o *OAuth2Driver) Check(ctx context.Context, _, _ string, credential string) (string, bool) {
	if setter, ok := authz.HasSetSession(o.backend); ok {
		sess, ok := setter.SetSession(ctx, credential)
		if !ok {
			return "", false
		}
		return sess.User, true
	}
	if checker, ok := authz.HasCheck(o.backend); ok {
		return checker.Check(ctx, "", credential)
	}
	return "", false
}

// Challenge redirects to the provider's consent screen and reports DONE:
// the core must not also write its own 401/302 on top of this response.
func (o *OAuth2Driver) Challenge(w http.ResponseWriter, r *http.Request) bool {
	if o.config == nil {
		return false
	}
	http.Redirect(w, r, o.config.AuthCodeURL(o.state), http.StatusFound)
	return true
}

func (o *OAuth2Driver) Close() error { return nil }

var _ Driver = (*OAuth2Driver)(nil)
