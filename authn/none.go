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
	"net/http"
)

// NoneDriver never authenticates anyone; it exists so a server can be
// configured with authn=None and have the connector fall straight
// through to the protect/unprotect glob decision (S4) for every request.
type NoneDriver struct{}

func NewNone() *NoneDriver { return &NoneDriver{} }

func (*NoneDriver) Scheme() Scheme { return None }

func (*NoneDriver) Check(context.Context, string, string, string) (string, bool) {
	return "", false
}

// Challenge never writes a WWW-Authenticate header: with no credential
// scheme there's nothing for the client to retry with, so the core's
// 401/redirect is the whole story.
func (*NoneDriver) Challenge(http.ResponseWriter, *http.Request) bool { return false }

func (*NoneDriver) Close() error { return nil }

var _ Driver = (*NoneDriver)(nil)
