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

package token

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestDefaultShape checks property P4: URL-safe base64 of 24 bytes,
// length in [32, 36], no padding.
func TestDefaultShape(t *testing.T) {
	for i := 0; i < 20; i++ {
		tok, err := Default(context.Background(), nil, 0)
		if err != nil {
			t.Fatalf("Default: %v", err)
		}
		if len(tok) < 32 || len(tok) > 36 {
			t.Errorf("len(%q) = %d, want [32,36]", tok, len(tok))
		}
		if strings.Contains(tok, "=") {
			t.Errorf("token %q contains padding", tok)
		}
		if strings.ContainsAny(tok, "+/") {
			t.Errorf("token %q is not URL-safe base64", tok)
		}
	}
}

func TestAttachAndExtractHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	Attach(rec, req, ChannelHeader, "tok123")

	req2 := httptest.NewRequest("GET", "/", nil)
	req2.Header.Set(HeaderName, rec.Header().Get(HeaderName))
	got, ok := Extract(req2, ChannelHeader)
	if !ok || got != "tok123" {
		t.Errorf("Extract(header) = %q,%v, want tok123,true", got, ok)
	}
}

func TestAttachAndExtractCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	Attach(rec, req, ChannelCookie, "tok456")

	req2 := httptest.NewRequest("GET", "/", nil)
	for _, c := range rec.Result().Cookies() {
		req2.AddCookie(c)
	}
	got, ok := Extract(req2, ChannelCookie)
	if !ok || got != "tok456" {
		t.Errorf("Extract(cookie) = %q,%v, want tok456,true", got, ok)
	}
}

func TestExtractMissing(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, ok := Extract(req, ChannelHeader); ok {
		t.Error("Extract(header) ok = true, want false when absent")
	}
	if _, ok := Extract(req, ChannelCookie); ok {
		t.Error("Extract(cookie) ok = true, want false when absent")
	}
}

// TestExtractAnyReadsCookieWhenBothEnabled covers invariant I5: input is
// read from either channel when both are enabled, even though output
// attachment (Attach, chosen separately by the caller) prefers header.
func TestExtractAnyReadsCookieWhenBothEnabled(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: HeaderName, Value: "cookie-tok"})

	got, ok := ExtractAny(req, true, true)
	if !ok || got != "cookie-tok" {
		t.Errorf("ExtractAny(both enabled, cookie-only) = %q,%v, want cookie-tok,true", got, ok)
	}
}

// TestExtractAnyPrefersHeaderOverCookie covers the same invariant from
// the other side: when both channels carry a token, the header wins.
func TestExtractAnyPrefersHeaderOverCookie(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(HeaderName, "header-tok")
	req.AddCookie(&http.Cookie{Name: HeaderName, Value: "cookie-tok"})

	got, ok := ExtractAny(req, true, true)
	if !ok || got != "header-tok" {
		t.Errorf("ExtractAny(both enabled, both set) = %q,%v, want header-tok,true", got, ok)
	}
}

// TestExtractAnyCookieOnlyChannel covers the CookieEnabled-only
// configuration: the header is never consulted.
func TestExtractAnyCookieOnlyChannel(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: HeaderName, Value: "cookie-tok"})

	got, ok := ExtractAny(req, false, true)
	if !ok || got != "cookie-tok" {
		t.Errorf("ExtractAny(cookie-only) = %q,%v, want cookie-tok,true", got, ok)
	}
}
