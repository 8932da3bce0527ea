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
	"net/http/httptest"
	"testing"
)

func TestNoneDriverNeverAuthenticates(t *testing.T) {
	driver := NewNone()
	if driver.Scheme() != None {
		t.Errorf("Scheme() = %q, want None", driver.Scheme())
	}
	if _, ok := driver.Check(context.Background(), "GET", "/", "anything"); ok {
		t.Error("Check ok = true, want false")
	}
}

func TestNoneDriverChallengeWritesNothing(t *testing.T) {
	driver := NewNone()
	rec := httptest.NewRecorder()
	if driver.Challenge(rec, httptest.NewRequest("GET", "/", nil)) {
		t.Error("Challenge handled = true, want false")
	}
	if rec.Header().Get("WWW-Authenticate") != "" {
		t.Error("Challenge wrote a WWW-Authenticate header, want none")
	}
}
