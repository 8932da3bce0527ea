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
	"encoding/base64"
	"net/http/httptest"
	"testing"

	"github.com/authguard/authguard/authz"
)

func TestBasicDriverCheck(t *testing.T) {
	backend, err := authz.NewSimple([]authz.Account{{User: "alice", Secret: "secret"}})
	if err != nil {
		t.Fatalf("NewSimple: %v", err)
	}
	driver := NewBasic(backend, nil, "")

	cred := base64.StdEncoding.EncodeToString([]byte("alice:secret"))
	user, ok := driver.Check(context.Background(), "GET", "/x", cred)
	if !ok || user != "alice" {
		t.Fatalf("Check(valid) = %q,%v, want alice,true", user, ok)
	}

	badCred := base64.StdEncoding.EncodeToString([]byte("alice:wrong"))
	if _, ok := driver.Check(context.Background(), "GET", "/x", badCred); ok {
		t.Error("Check(wrong password) ok = true, want false")
	}

	if _, ok := driver.Check(context.Background(), "GET", "/x", "not-base64!!"); ok {
		t.Error("Check(malformed) ok = true, want false")
	}
}

func TestBasicDriverChallenge(t *testing.T) {
	backend, _ := authz.NewSimple(nil)
	driver := NewBasic(backend, nil, "myrealm")

	rec := httptest.NewRecorder()
	handled := driver.Challenge(rec, httptest.NewRequest("GET", "/", nil))
	if handled {
		t.Error("Challenge() handled = true, want false (CONTINUE)")
	}
	want := `Basic realm="myrealm"`
	if got := rec.Header().Get("WWW-Authenticate"); got != want {
		t.Errorf("WWW-Authenticate = %q, want %q", got, want)
	}
}
