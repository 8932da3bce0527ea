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

//go:build !windows

package middleware

import "testing"

// TestImpersonateUnknownUserReturnsError covers the lookup failure leg:
// an unresolvable username must come back as a reported error, not a
// panic or a silent success, since the caller only warns on each one.
func TestImpersonateUnknownUserReturnsError(t *testing.T) {
	errs := impersonate("no-such-authguard-test-user")
	if len(errs) == 0 {
		t.Fatal("impersonate(unknown user) returned no errors, want at least one")
	}
}
