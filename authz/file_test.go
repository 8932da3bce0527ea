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
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeUserTOML(t *testing.T, contents string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "users.toml")
	if err := os.WriteFile(p, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return p
}

func TestFileBackendLoadsAccounts(t *testing.T) {
	p := writeUserTOML(t, `
[[user]]
user = "alice"
secret = "hunter2"
group = "staff"
home = "/home/alice"
`)
	backend, err := NewFile(p)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	defer backend.Close()

	secret, ok := backend.Passwd(context.Background(), "alice")
	if !ok || secret != "hunter2" {
		t.Errorf("Passwd(alice) = %q,%v, want hunter2,true", secret, ok)
	}
	group, ok := backend.Group(context.Background(), "alice")
	if !ok || group != "staff" {
		t.Errorf("Group(alice) = %q,%v, want staff,true", group, ok)
	}
}

func TestFileBackendRejectsMissingUserName(t *testing.T) {
	p := writeUserTOML(t, `
[[user]]
secret = "hunter2"
`)
	if _, err := NewFile(p); err == nil {
		t.Fatal("NewFile: want error for a [[user]] entry missing its name")
	}
}

func TestFileBackendJoinAndCheck(t *testing.T) {
	p := writeUserTOML(t, `
[[user]]
user = "alice"
secret = "hunter2"
`)
	backend, err := NewFile(p)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	defer backend.Close()

	if err := backend.Join(context.Background(), "alice", "tok", time.Hour); err != nil {
		t.Fatalf("Join: %v", err)
	}
	user, ok := backend.Check(context.Background(), "", "tok")
	if !ok || user != "alice" {
		t.Errorf("Check = %q,%v, want alice,true", user, ok)
	}
}
