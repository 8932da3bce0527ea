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
	"net"
	"sync"

	"github.com/authguard/authguard/authn"
	"github.com/authguard/authguard/session"
)

// clientCtx is the per-connection connector state (§3's ClientCtx): a
// lazily-allocated session (no challenge string is cached), scoped to one
// TCP connection so invariant I1 ("already authenticated on this
// connection, don't reverify") holds across the connection's requests.
// It is attached to the connection via (*Module).ConnContext and lives
// exactly as long as the connection does — Go's ordinary connection
// teardown frees it, the same lifetime the original gave ClientCtx
// between attach and disconnect.
type clientCtx struct {
	mu   sync.Mutex
	info *session.Session
}

type clientCtxKey struct{}

// ConnContext is the per-client attach point: wire it into
// http.Server.ConnContext so every accepted connection gets its own
// clientCtx, the Go equivalent of the original's getctx/freectx pair
// registered with the host server under the module name "auth".
//
//	srv := &http.Server{
//		Handler:     mod.Wrap(mux),
//		ConnContext: mod.ConnContext,
//	}
//
// A server that doesn't wire this still works, but degrades to
// reverifying credentials on every request (no connection-scoped state
// to remember a prior success in).
func (m *Module) ConnContext(ctx context.Context, conn net.Conn) context.Context {
	if s, ok := m.driver.(authn.ClientSetup); ok {
		peer := ""
		if conn != nil && conn.RemoteAddr() != nil {
			peer = conn.RemoteAddr().String()
		}
		s.Setup(peer)
	}
	return context.WithValue(ctx, clientCtxKey{}, &clientCtx{})
}

// clientCtxFrom returns the clientCtx attached to r's connection, or a
// fresh, request-scoped-only one if ConnContext was never wired.
func clientCtxFrom(ctx context.Context) *clientCtx {
	if cc, ok := ctx.Value(clientCtxKey{}).(*clientCtx); ok {
		return cc
	}
	return &clientCtx{}
}
