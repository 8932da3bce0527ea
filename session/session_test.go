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

package session

import (
	"net/http/httptest"
	"testing"
)

func TestWithSessionAndFromRequest(t *testing.T) {
	sess := &Session{User: "alice", Type: "Basic"}
	req := httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(WithSession(req.Context(), sess))

	got, ok := FromRequest(req)
	if !ok {
		t.Fatal("FromRequest: ok = false, want true")
	}
	if got.User != "alice" {
		t.Errorf("User = %q, want alice", got.User)
	}
}

func TestFromRequestMissing(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, ok := FromRequest(req); ok {
		t.Error("FromRequest: ok = true, want false when no session was attached")
	}
}
