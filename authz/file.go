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
	"os"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
)

// fileRecord is one [[user]] table in the backing TOML file.
type fileRecord struct {
	User   string `toml:"user"`
	Secret string `toml:"secret"`
	Group  string `toml:"group"`
	Home   string `toml:"home"`
}

type fileDocument struct {
	User []fileRecord `toml:"user"`
}

// FileBackend reads its account table from a TOML file on disk at
// construction time (reloads are out of scope: the core's concurrency
// model documents authz backends as "expected to be fast" synchronous
// I/O, not watchers). Token join/check is kept in memory, same as
// SimpleBackend, since the file format has no natural place to persist
// ephemeral tokens.
type FileBackend struct {
	path string

	mu       sync.RWMutex
	accounts map[string]fileRecord
	tokens   map[string]tokenEntry
}

// NewFile loads accounts from path, a TOML document of the form:
//
//	[[user]]
//	user = "alice"
//	secret = "<HA1 or bcrypt hash, depending on the authn scheme>"
//	group = "staff"
//	home = "/home/alice"
func NewFile(path string) (*FileBackend, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("authz/file: %w", err)
	}
	var doc fileDocument
	if _, err := toml.Decode(string(raw), &doc); err != nil {
		return nil, fmt.Errorf("authz/file: parsing %s: %w", path, err)
	}
	accounts := make(map[string]fileRecord, len(doc.User))
	for _, rec := range doc.User {
		if rec.User == "" {
			return nil, fmt.Errorf("authz/file: %s: a [[user]] entry is missing its user name", path)
		}
		accounts[rec.User] = rec
	}
	return &FileBackend{path: path, accounts: accounts, tokens: make(map[string]tokenEntry)}, nil
}

func (f *FileBackend) Passwd(_ context.Context, user string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	rec, ok := f.accounts[user]
	return rec.Secret, ok
}

func (f *FileBackend) Group(_ context.Context, user string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	rec, ok := f.accounts[user]
	return rec.Group, ok && rec.Group != ""
}

func (f *FileBackend) Home(_ context.Context, user string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	rec, ok := f.accounts[user]
	return rec.Home, ok && rec.Home != ""
}

func (f *FileBackend) Join(_ context.Context, user, token string, expire time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var exp time.Time
	if expire > 0 {
		exp = time.Now().Add(expire)
	}
	f.tokens[token] = tokenEntry{user: user, expires: exp}
	return nil
}

func (f *FileBackend) Check(_ context.Context, _ string, token string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.tokens[token]
	if !ok {
		return "", false
	}
	if !entry.expires.IsZero() && time.Now().After(entry.expires) {
		delete(f.tokens, token)
		return "", false
	}
	return entry.user, true
}

func (f *FileBackend) Close() error { return nil }

// Interface guards.
var (
	_ Backend       = (*FileBackend)(nil)
	_ GroupResolver = (*FileBackend)(nil)
	_ HomeResolver  = (*FileBackend)(nil)
	_ TokenJoiner   = (*FileBackend)(nil)
	_ TokenChecker  = (*FileBackend)(nil)
)
