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

// Package hash is a small name-based registry of one-way hash functions,
// the kind Digest authentication needs to compute HA1/HA2 and that other
// authn drivers may use to normalize stored secrets.
package hash

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
)

// Hash describes a named one-way hash function, the way the registry
// entries look in the original C middleware this package replaces
// (name, block size, digest size, and a constructor).
type Hash struct {
	Name       string
	BlockSize  int
	DigestSize int
	New        func() hash.Hash
}

var registry = map[string]*Hash{
	"md5": {
		Name: "md5", BlockSize: md5.BlockSize, DigestSize: md5.Size,
		New: md5.New,
	},
	"sha1": {
		Name: "sha1", BlockSize: sha1.BlockSize, DigestSize: sha1.Size,
		New: sha1.New,
	},
	"sha224": {
		Name: "sha224", BlockSize: sha256.BlockSize, DigestSize: sha256.Size224,
		New: sha256.New224,
	},
	"sha256": {
		Name: "sha256", BlockSize: sha256.BlockSize, DigestSize: sha256.Size,
		New: sha256.New,
	},
	"sha512": {
		Name: "sha512", BlockSize: sha512.BlockSize, DigestSize: sha512.Size,
		New: sha512.New,
	},
}

// Lookup returns the named hash, or nil if no hash is registered under
// that name. Basic auth and similar schemes that don't need a digest
// hash are expected to tolerate a nil result.
func Lookup(name string) *Hash {
	if name == "" {
		return nil
	}
	return registry[name]
}

// Names returns the registered hash names, for diagnostics when a
// configured algorithm name doesn't resolve.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	return names
}

// Default resolves a configured algorithm name to a Hash, following the
// fallback defined by the middleware: an unknown name falls back to md5;
// an empty name also falls back to md5. ok is false when the requested
// name was non-empty but unknown, so the caller can warn.
func Default(name string) (h *Hash, ok bool) {
	if name != "" {
		if h = Lookup(name); h != nil {
			return h, true
		}
	}
	return Lookup("md5"), name == ""
}
