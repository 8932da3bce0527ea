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

package hash

import "testing"

func TestLookupKnown(t *testing.T) {
	for _, name := range []string{"md5", "sha1", "sha224", "sha256", "sha512"} {
		if Lookup(name) == nil {
			t.Errorf("Lookup(%q) = nil, want a hash", name)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	if h := Lookup("sha3-256"); h != nil {
		t.Errorf("Lookup(unknown) = %+v, want nil", h)
	}
}

func TestDefaultFallsBackToMD5(t *testing.T) {
	h, ok := Default("bogus")
	if ok {
		t.Error("Default(bogus) ok = true, want false (unknown name, so the caller can warn)")
	}
	if h == nil || h.Name != "md5" {
		t.Errorf("Default(bogus) = %+v, want md5", h)
	}
}

func TestDefaultEmptyIsMD5(t *testing.T) {
	h, ok := Default("")
	if !ok {
		t.Error("Default(\"\") ok = false, want true")
	}
	if h == nil || h.Name != "md5" {
		t.Errorf("Default(\"\") = %+v, want md5", h)
	}
}

func TestDefaultHonorsExplicitName(t *testing.T) {
	h, ok := Default("sha256")
	if !ok || h == nil || h.Name != "sha256" {
		t.Errorf("Default(sha256) = %+v,%v, want sha256,true", h, ok)
	}
}
