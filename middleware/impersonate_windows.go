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

//go:build windows

package middleware

import "fmt"

// impersonate is a no-op on windows, which has no seteuid/setegid
// equivalent; construction already refuses UnixImpersonation unless
// paired with ExclusiveProcess, but it cannot refuse it by platform,
// so the single warned error surfaces here instead.
func impersonate(username string) []error {
	return []error{fmt.Errorf("impersonate: unix_impersonation is not supported on windows")}
}
