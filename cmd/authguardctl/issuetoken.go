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

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/authguard/authguard/authz"
	"github.com/authguard/authguard/session"
)

func newIssueTokenCommand() *cobra.Command {
	var secret, issuer, user, group, home string
	var expire time.Duration

	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Mint a JWT for testing a JWT-backed deployment",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("--secret is required")
			}
			if user == "" {
				return fmt.Errorf("--user is required")
			}
			backend, err := authz.NewJWT([]byte(secret), issuer, nil)
			if err != nil {
				return err
			}
			defer backend.Close()

			sess := &session.Session{User: user, Group: group, Home: home}
			tok, err := backend.GenerateToken(context.Background(), sess, expire)
			if err != nil {
				return fmt.Errorf("issuing token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "HMAC signing secret (required)")
	cmd.Flags().StringVar(&issuer, "issuer", "authguard", "issuer claim")
	cmd.Flags().StringVar(&user, "user", "", "subject claim (required)")
	cmd.Flags().StringVar(&group, "group", "", "group claim")
	cmd.Flags().StringVar(&home, "home", "", "home claim")
	cmd.Flags().DurationVar(&expire, "expire", 0, "token lifetime (0 = never expires)")
	return cmd
}
