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
	"encoding/base64"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/authguard/authguard/authn"
	"github.com/authguard/authguard/authz"
	"github.com/authguard/authguard/hash"
)

func newTestBackend(t *testing.T) *authz.SimpleBackend {
	t.Helper()
	b, err := authz.NewSimple([]authz.Account{{User: "alice", Secret: "hunter2", Home: "/home/alice"}})
	if err != nil {
		t.Fatalf("NewSimple: %v", err)
	}
	return b
}

func TestNewRejectsImpersonationWithoutExclusiveProcess(t *testing.T) {
	backend := newTestBackend(t)
	driver := authn.NewBasic(backend, nil, "test")

	_, err := New(nil, backend, driver, Config{UnixImpersonation: true})
	if err == nil {
		t.Fatal("New: want error, got nil")
	}
}

func TestNewClearsTokenEnabledWithoutJoinOrGenerate(t *testing.T) {
	passwdPath := filepath.Join(t.TempDir(), "passwd")
	if err := os.WriteFile(passwdPath, []byte("alice:x:1000:1000::/home/alice:/bin/sh\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	backend, err := authz.NewUnix(passwdPath)
	if err != nil {
		t.Fatalf("NewUnix: %v", err)
	}

	driver := authn.NewBasic(backend, nil, "test")
	mod, err := New(nil, backend, driver, Config{TokenEnabled: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if mod.cfg.TokenEnabled {
		t.Error("TokenEnabled should be cleared: UnixBackend supports neither Join nor GenerateToken (invariant I3)")
	}
}

func TestNewKeepsTokenEnabledWithJoiner(t *testing.T) {
	backend := newTestBackend(t)
	driver := authn.NewBasic(backend, nil, "test")
	mod, err := New(nil, backend, driver, Config{TokenEnabled: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !mod.cfg.TokenEnabled {
		t.Error("TokenEnabled should remain true: SimpleBackend implements TokenJoiner")
	}
}

// TestAlgoEmptyLeavesDriverHashUnbound is a regression test: an unset
// Config.Algo must not force md5 (or any hash) onto a driver built for
// plaintext/bcrypt comparison.
func TestAlgoEmptyLeavesDriverHashUnbound(t *testing.T) {
	backend := newTestBackend(t)
	driver := authn.NewBasic(backend, nil, "test")
	mod, err := New(nil, backend, driver, Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	cred := base64.StdEncoding.EncodeToString([]byte("alice:hunter2"))
	user, ok := mod.driver.Check(context.Background(), "GET", "/", cred)
	if !ok || user != "alice" {
		t.Fatalf("Check = %q,%v, want alice,true (empty Algo must not force hash binding)", user, ok)
	}
}

// TestAlgoBindsConfiguredHash covers Config.Algo wiring into a
// HashBinder driver: a stored sha256 secret is only checkable once
// New binds that hash.
func TestAlgoBindsConfiguredHash(t *testing.T) {
	const password = "hunter2"
	sha256Hash := hash.Lookup("sha256")
	sum := sha256Hash.New()
	sum.Write([]byte(password))
	secret := hex.EncodeToString(sum.Sum(nil))

	backend, err := authz.NewSimple([]authz.Account{{User: "alice", Secret: secret}})
	if err != nil {
		t.Fatalf("NewSimple: %v", err)
	}
	driver := authn.NewBasic(backend, nil, "test")

	mod, err := New(nil, backend, driver, Config{Algo: "sha256"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	cred := base64.StdEncoding.EncodeToString([]byte("alice:" + password))
	user, ok := mod.driver.Check(context.Background(), "GET", "/", cred)
	if !ok || user != "alice" {
		t.Fatalf("Check = %q,%v, want alice,true (sha256 should be bound)", user, ok)
	}
}

// TestAlgoUnknownFallsBackToMD5 covers §7's BadAlgorithm row: an
// unrecognized Config.Algo warns and falls back to md5 rather than
// rejecting construction.
func TestAlgoUnknownFallsBackToMD5(t *testing.T) {
	const password = "hunter2"
	md5Hash := hash.Lookup("md5")
	sum := md5Hash.New()
	sum.Write([]byte(password))
	secret := hex.EncodeToString(sum.Sum(nil))

	backend, err := authz.NewSimple([]authz.Account{{User: "alice", Secret: secret}})
	if err != nil {
		t.Fatalf("NewSimple: %v", err)
	}
	driver := authn.NewBasic(backend, nil, "test")

	mod, err := New(nil, backend, driver, Config{Algo: "not-a-real-algorithm"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	cred := base64.StdEncoding.EncodeToString([]byte("alice:" + password))
	user, ok := mod.driver.Check(context.Background(), "GET", "/", cred)
	if !ok || user != "alice" {
		t.Fatalf("Check = %q,%v, want alice,true (unknown algo should fall back to md5)", user, ok)
	}
}

func TestChannelPrecedence(t *testing.T) {
	backend := newTestBackend(t)
	driver := authn.NewBasic(backend, nil, "test")

	mod, err := New(nil, backend, driver, Config{HeaderEnabled: true, CookieEnabled: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if mod.channel != 0 {
		t.Error("channel should be ChannelHeader when both enabled (invariant I5)")
	}
}
