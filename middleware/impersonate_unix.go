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

import (
	"fmt"
	"os/user"
	"strconv"
	"syscall"
)

// impersonate drops the process's effective uid/gid to
// username's, the UNIX_E sequence from §4.6.2: reclaim the real uid,
// switch the effective gid, then the effective uid. Each step that
// fails is appended to the returned slice rather than aborting the
// sequence; the caller logs them and proceeds regardless, matching the
// original impersonate()'s own warn-not-die handling.
func impersonate(username string) []error {
	var errs []error

	u, err := user.Lookup(username)
	if err != nil {
		return append(errs, fmt.Errorf("impersonate: lookup %q: %w", username, err))
	}
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return append(errs, fmt.Errorf("impersonate: parse uid %q: %w", u.Uid, err))
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return append(errs, fmt.Errorf("impersonate: parse gid %q: %w", u.Gid, err))
	}

	if err := syscall.Seteuid(syscall.Getuid()); err != nil {
		errs = append(errs, fmt.Errorf("impersonate: reclaim real uid: %w", err))
	}
	if err := syscall.Setegid(gid); err != nil {
		errs = append(errs, fmt.Errorf("impersonate: setegid %d: %w", gid, err))
	}
	if err := syscall.Seteuid(uid); err != nil {
		errs = append(errs, fmt.Errorf("impersonate: seteuid %d: %w", uid, err))
	}

	return errs
}
