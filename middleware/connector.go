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

package middleware

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/authguard/authguard/authn"
	"github.com/authguard/authguard/authz"
	"github.com/authguard/authguard/session"
	"github.com/authguard/authguard/token"
	"go.uber.org/zap"
)

// remoteHome is the literal value the original always emitted on
// X-Remote-Home rather than the real home path, a deliberate non-leak
// of the absolute filesystem path (SPEC_FULL.md §9).
const remoteHome = "~/"

// serve is the request connector (C6): home redirect (§4.6.1, which has
// no protect/unprotect gating of its own), then the authn state machine
// S0-S3 (connection fast path, self-logout, credential extraction and
// verification — attempted unconditionally, regardless of Protect), and
// finally S4: only when info is still null does Protect/Unprotect decide
// the outcome (challenge, or anonymous admission).
func (m *Module) serve(w http.ResponseWriter, r *http.Request, next http.Handler) {
	cc := clientCtxFrom(r.Context())

	if m.cfg.HomeEnabled && m.homeRedirect(w, r, cc) {
		return
	}

	sess, ok := m.authenticate(w, r, cc)
	if ok {
		m.attachIdentity(w, sess)
		next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
		return
	}

	// S4: info is still null. The login page itself is always admitted,
	// then Protect/Unprotect decides between a challenge and anonymous
	// admission.
	if m.cfg.Redirect != "" && samePath(r.URL.Path, m.cfg.Redirect) {
		next.ServeHTTP(w, r)
		return
	}
	if !m.protected(r.URL.Path) {
		next.ServeHTTP(w, r)
		return
	}
	m.challenge(w, r)
}

// protected reports whether path must be authenticated: it matches
// Config.Protect and does not match the (possibly empty) Config.Unprotect
// override, per §4.6.1's glob rules. In these globs '*' and '?' also
// match '/', so the default Protect of "*" covers every path.
func (m *Module) protected(p string) bool {
	match := func(pattern string) bool {
		expr := regexp.QuoteMeta(pattern)
		expr = strings.ReplaceAll(expr, `\*`, ".*")
		expr = strings.ReplaceAll(expr, `\?`, ".")
		ok, _ := regexp.MatchString("^"+expr+"$", p)
		return ok
	}
	if m.cfg.Unprotect != "" && match(m.cfg.Unprotect) {
		return false
	}
	return match(m.cfg.Protect)
}

func samePath(reqPath, configured string) bool {
	u, err := url.Parse(configured)
	if err != nil {
		return reqPath == configured
	}
	return reqPath == u.Path
}

// homeRedirect implements the home connector: it reads the session set
// on this connection by a PRIOR request (never the one being served
// now — a single request can only authenticate at the end of this same
// pipeline) and, if the current path falls outside that user's home,
// issues a 301 there. The first authenticated request on a connection
// therefore never redirects; only the second and later ones can.
func (m *Module) homeRedirect(w http.ResponseWriter, r *http.Request, cc *clientCtx) bool {
	if r.Header.Get("Sec-WebSocket-Version") != "" {
		return false
	}

	cc.mu.Lock()
	info := cc.info
	cc.mu.Unlock()
	if info == nil || info.Home == "" || info.Home == remoteHome {
		return false
	}

	decoded, err := url.PathUnescape(r.URL.Path)
	if err != nil {
		decoded = r.URL.Path
	}
	if strings.HasPrefix(decoded, info.Home) {
		return false
	}

	target := info.Home
	if !strings.HasSuffix(target, "/") {
		target += "/"
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
	return true
}

// authenticate runs states S0-S3: the connection fast path, self-logout,
// credential extraction (header, then cookie, then token channel), and
// verification, minting and joining a token when enabled.
func (m *Module) authenticate(w http.ResponseWriter, r *http.Request, cc *clientCtx) (*session.Session, bool) {
	cc.mu.Lock()
	info := cc.info
	cc.mu.Unlock()

	if info != nil {
		if m.cfg.AllowLogoutHeader && r.Header.Get("WWW-Authenticate") != "" {
			cc.mu.Lock()
			cc.info = nil
			cc.mu.Unlock()
		} else {
			// S0: already authenticated on this connection (I1); reattach
			// the token so it survives on every response, but don't
			// reverify credentials.
			if m.cfg.TokenEnabled && info.Token != "" {
				token.Attach(w, r, m.channel, info.Token)
			}
			m.impersonateIfNeeded(info.User)
			return info, true
		}
	}

	method := r.Method
	if m.cfg.Redirect != "" && m.cfg.RedirectHeadSubstitution {
		method = http.MethodHead
	}

	ctx := r.Context()
	user, ok := m.checkCredential(ctx, r, method)
	if !ok {
		return nil, false
	}

	sess := &session.Session{User: user, Type: string(m.driver.Scheme())}
	if g, has := authz.HasGroup(m.backend); has {
		if group, found := g.Group(ctx, user); found {
			sess.Group = group
		}
	}
	if h, has := authz.HasHome(m.backend); has {
		if home, found := h.Home(ctx, user); found {
			sess.Home = home
		}
	}

	if m.cfg.TokenEnabled {
		tok, err := m.generator(ctx, sess, m.cfg.Expire)
		if err == nil {
			if joiner, has := authz.HasJoin(m.backend); has {
				if err := joiner.Join(ctx, user, tok, m.cfg.Expire); err == nil {
					sess.Token = tok
				}
			} else {
				// Self-contained token (JWT): no join step needed.
				sess.Token = tok
			}
			if sess.Token != "" {
				token.Attach(w, r, m.channel, sess.Token)
			}
		} else {
			m.logger.Warn("token generation failed", zap.Error(err))
		}
	}

	cc.mu.Lock()
	cc.info = sess
	cc.mu.Unlock()

	m.impersonateIfNeeded(user)
	return sess, true
}

// impersonateIfNeeded implements §4.6.2's UNIX_E step: when configured
// (construction already guaranteed ExclusiveProcess is also set), drop
// the process's effective identity to the authenticated user's. Each failure is warned, not fatal — the request proceeds
// under whatever privilege the prior step left it with, matching the
// original impersonate() sequence's own non-fatal error handling.
func (m *Module) impersonateIfNeeded(user string) {
	if !m.cfg.UnixImpersonation {
		return
	}
	for _, err := range impersonate(user) {
		m.logger.Warn("impersonation step failed", zap.String("user", user), zap.Error(err))
	}
}

// checkCredential extracts a credential from the Authorization header,
// the Authorization cookie, or the token channel (in that order, per
// the original's _authn_getauthorization lookup) and verifies it.
func (m *Module) checkCredential(ctx context.Context, r *http.Request, method string) (string, bool) {
	if v := r.Header.Get("Authorization"); v != "" {
		if scheme, cred, ok := splitAuthorization(v); ok && scheme == m.driver.Scheme() {
			return m.driver.Check(ctx, method, r.URL.Path, cred)
		}
	}
	if c, err := r.Cookie("Authorization"); err == nil && c.Value != "" {
		if scheme, cred, ok := splitAuthorization(c.Value); ok && scheme == m.driver.Scheme() {
			return m.driver.Check(ctx, method, r.URL.Path, cred)
		}
	}

	if tok, ok := token.ExtractAny(r, m.cfg.HeaderEnabled, m.cfg.CookieEnabled); ok {
		if setter, has := authz.HasSetSession(m.backend); has {
			if sess, found := setter.SetSession(ctx, tok); found {
				return sess.User, true
			}
			return "", false
		}
		if checker, has := authz.HasCheck(m.backend); has {
			return checker.Check(ctx, "", tok)
		}
	}

	return "", false
}

// splitAuthorization splits "Scheme credential" into its two parts.
func splitAuthorization(v string) (scheme authn.Scheme, credential string, ok bool) {
	name, cred, found := strings.Cut(v, " ")
	if !found {
		return "", "", false
	}
	return authn.Scheme(name), cred, true
}

// attachIdentity writes the propagation headers/cookies §4.6.2
// describes for HeaderEnabled/CookieEnabled, never the real home path.
func (m *Module) attachIdentity(w http.ResponseWriter, sess *session.Session) {
	if m.cfg.HeaderEnabled {
		w.Header().Set("X-Remote-User", sess.User)
		if sess.Group != "" {
			w.Header().Set("X-Remote-Group", sess.Group)
		}
		if sess.Home != "" {
			w.Header().Set("X-Remote-Home", remoteHome)
		}
	}
	if m.cfg.CookieEnabled {
		http.SetCookie(w, &http.Cookie{Name: "X-Remote-User", Value: sess.User, Path: "/"})
	}
}

// challenge implements §7's failure table: XHR gets 403, a configured
// Redirect gets a 302 to the login page, otherwise the driver's own
// Challenge runs and falls back to a bare 401.
func (m *Module) challenge(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Requested-With") == "XMLHttpRequest" {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if m.cfg.Redirect != "" {
		w.Header().Set("Cache-Control", "no-cache")
		http.Redirect(w, r, m.cfg.Redirect, http.StatusFound)
		return
	}

	if m.driver.Challenge(w, r) {
		return
	}
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}
