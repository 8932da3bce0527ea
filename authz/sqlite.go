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

package authz

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

// SQLiteBackend is the only backend capable of durably joining a token
// to a user with an expiry: it is the intended pairing for TokenE in
// deployments that need sessions to survive a process restart, matching
// the original middleware's comment that the sqlite module is "the other
// authz module" to reach for when a file-backed token store is needed.
type SQLiteBackend struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	user   TEXT PRIMARY KEY,
	secret TEXT NOT NULL,
	group_name TEXT,
	home   TEXT
);
CREATE TABLE IF NOT EXISTS tokens (
	token   TEXT PRIMARY KEY,
	user    TEXT NOT NULL,
	expires INTEGER NOT NULL
);
`

// NewSQLite opens (and, if necessary, initializes) a SQLite-backed authz
// store at dsn, e.g. "file:authguard.db?cache=shared".
func NewSQLite(dsn string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("authz/sqlite: opening %s: %w", dsn, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("authz/sqlite: initializing schema: %w", err)
	}
	return &SQLiteBackend{db: db}, nil
}

func (s *SQLiteBackend) Passwd(ctx context.Context, user string) (string, bool) {
	var secret string
	err := s.db.QueryRowContext(ctx, `SELECT secret FROM users WHERE user = ?`, user).Scan(&secret)
	return secret, err == nil
}

func (s *SQLiteBackend) Group(ctx context.Context, user string) (string, bool) {
	var group sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT group_name FROM users WHERE user = ?`, user).Scan(&group)
	return group.String, err == nil && group.Valid && group.String != ""
}

func (s *SQLiteBackend) Home(ctx context.Context, user string) (string, bool) {
	var home sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT home FROM users WHERE user = ?`, user).Scan(&home)
	return home.String, err == nil && home.Valid && home.String != ""
}

func (s *SQLiteBackend) Join(ctx context.Context, user, token string, expire time.Duration) error {
	var expires int64
	if expire != 0 {
		expires = time.Now().Add(expire).Unix()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tokens (token, user, expires) VALUES (?, ?, ?)
		 ON CONFLICT(token) DO UPDATE SET user = excluded.user, expires = excluded.expires`,
		token, user, expires)
	return err
}

func (s *SQLiteBackend) Check(ctx context.Context, _ string, token string) (string, bool) {
	var user string
	var expires int64
	err := s.db.QueryRowContext(ctx, `SELECT user, expires FROM tokens WHERE token = ?`, token).Scan(&user, &expires)
	if err != nil {
		return "", false
	}
	if expires != 0 && time.Now().Unix() > expires {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM tokens WHERE token = ?`, token)
		return "", false
	}
	return user, true
}

func (s *SQLiteBackend) Close() error { return s.db.Close() }

// Interface guards.
var (
	_ Backend       = (*SQLiteBackend)(nil)
	_ GroupResolver = (*SQLiteBackend)(nil)
	_ HomeResolver  = (*SQLiteBackend)(nil)
	_ TokenJoiner   = (*SQLiteBackend)(nil)
	_ TokenChecker  = (*SQLiteBackend)(nil)
)
