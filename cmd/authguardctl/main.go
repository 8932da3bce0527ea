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

// Command authguardctl administers the on-disk account stores the authz
// backends read: hashing passwords for a File/SQLite user table, and
// minting a one-off JWT for testing a JWT-backed deployment.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "authguardctl",
		Short:         "Manage authguard account stores",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newHashPasswordCommand())
	root.AddCommand(newIssueTokenCommand())
	return root
}
