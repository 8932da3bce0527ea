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
	"sync"
	"time"
)

// Account is one entry of a SimpleBackend's in-memory user table.
type Account struct {
	User     string
	Secret   string
	Group    string
	Home     string
}

// SimpleBackend is the in-memory authz backend: a fixed account list
// supplied at construction, plus an in-memory token join/check table.
// It is the Go analogue of caddy's HTTPBasicAuth.Accounts map, extended
// with group/home metadata and token join/check since this driver must
// serve every authn scheme, not just Basic.
type SimpleBackend struct {
	mu       sync.RWMutex
	accounts map[string]Account
	tokens   map[string]tokenEntry
}

type tokenEntry struct {
	user    string
	expires time.Time
}

// NewSimple builds a SimpleBackend from a literal account list. Duplicate
// user names are rejected the way caddy's Provision does for HTTPBasicAuth.
func NewSimple(accounts []Account) (*SimpleBackend, error) {
	table := make(map[string]Account, len(accounts))
	for i, a := range accounts {
		if a.User == "" {
			return nil, fmt.Errorf("authz/simple: account %d: user name is required", i)
		}
		if _, dup := table[a.User]; dup {
			return nil, fmt.Errorf("authz/simple: account %d: user name is not unique: %s", i, a.User)
		}
		table[a.User] = a
	}
	return &SimpleBackend{accounts: table, tokens: make(map[string]tokenEntry)}, nil
}

func (s *SimpleBackend) Passwd(_ context.Context, user string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[user]
	return a.Secret, ok
}

func (s *SimpleBackend) Group(_ context.Context, user string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[user]
	return a.Group, ok && a.Group != ""
}

func (s *SimpleBackend) Home(_ context.Context, user string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[user]
	return a.Home, ok && a.Home != ""
}

func (s *SimpleBackend) Join(_ context.Context, user, token string, expire time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var exp time.Time
	if expire > 0 {
		exp = time.Now().Add(expire)
	}
	s.tokens[token] = tokenEntry{user: user, expires: exp}
	return nil
}

func (s *SimpleBackend) Check(_ context.Context, _ string, token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.tokens[token]
	if !ok {
		return "", false
	}
	if !entry.expires.IsZero() && time.Now().After(entry.expires) {
		delete(s.tokens, token)
		return "", false
	}
	return entry.user, true
}

func (s *SimpleBackend) Close() error { return nil }

// Interface guards.
var (
	_ Backend       = (*SimpleBackend)(nil)
	_ GroupResolver = (*SimpleBackend)(nil)
	_ HomeResolver  = (*SimpleBackend)(nil)
	_ TokenJoiner   = (*SimpleBackend)(nil)
	_ TokenChecker  = (*SimpleBackend)(nil)
)
