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
	"errors"
	"fmt"
	"net/http"

	"github.com/authguard/authguard/authn"
	"github.com/authguard/authguard/authz"
	"github.com/authguard/authguard/hash"
	"github.com/authguard/authguard/token"
	"go.uber.org/zap"
)

// Module is C5: the constructed, immutable middleware core. It is built
// once by New and then wrapped around a handler any number of times.
type Module struct {
	logger  *zap.Logger
	backend authz.Backend
	driver  authn.Driver
	cfg     Config

	generator token.Generator
	channel   token.Channel
}

// New wires an authz.Backend and an authn.Driver into a Module,
// applying §4.5's construction-time checks:
//
//  1. UNIX_E impersonation requires ExclusiveProcess (§5), rejected here
//     rather than silently ignored.
//  2. TokenEnabled is cleared, with a warning, if the backend can
//     neither join tokens to storage nor generate its own (invariant I3)
//     — there would be no way to later resolve a token back to a user.
//  3. The token channel is chosen per invariant I5: header takes
//     precedence over cookie when both are enabled.
//  4. Config.Algo is resolved to a hash.Hash via hash.Default's
//     BadAlgorithm fallback (§7) and bound into driver, if driver opts
//     into authn.HashBinder; an unknown name is warned, not rejected.
func New(logger *zap.Logger, backend authz.Backend, driver authn.Driver, cfg Config) (*Module, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if backend == nil {
		return nil, fmt.Errorf("middleware: backend is required")
	}
	if driver == nil {
		return nil, fmt.Errorf("middleware: driver is required")
	}

	cfg = cfg.withDefaults()

	if cfg.UnixImpersonation && !cfg.ExclusiveProcess {
		return nil, fmt.Errorf("middleware: unix_impersonation requires exclusive_process")
	}

	if cfg.TokenEnabled {
		_, hasJoin := authz.HasJoin(backend)
		_, hasGen := authz.HasGenerator(backend)
		if !hasJoin && !hasGen {
			logger.Warn("token issuance requested but backend supports neither Join nor GenerateToken; disabling",
				zap.String("backend_kind", fmt.Sprintf("%T", backend)))
			cfg.TokenEnabled = false
		}
	}

	channel := token.ChannelCookie
	if cfg.HeaderEnabled || !cfg.CookieEnabled {
		channel = token.ChannelHeader
	}

	// Only rebind the hash when the caller actually configured one:
	// leaving Algo empty preserves whatever hash (or lack of one, for
	// Basic's plaintext/bcrypt comparison) the driver was constructed
	// with, instead of forcing md5 onto every driver unconditionally.
	if cfg.Algo != "" {
		h, ok := hash.Default(cfg.Algo)
		if !ok {
			logger.Warn("unknown hash algorithm, falling back to md5",
				zap.String("algo", cfg.Algo), zap.Strings("known", hash.Names()))
		}
		if binder, has := driver.(authn.HashBinder); has {
			binder.SetHash(h)
		}
	}

	return &Module{
		logger:    logger,
		backend:   backend,
		driver:    driver,
		cfg:       cfg,
		generator: token.GeneratorFor(backend),
		channel:   channel,
	}, nil
}

// Wrap returns next wrapped by the request connector.
func (m *Module) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.serve(w, r, next)
	})
}

// Close releases the backend's and driver's resources. Both are closed
// even if the first fails, and both errors are reported.
func (m *Module) Close() error {
	return errors.Join(m.backend.Close(), m.driver.Close())
}
