// Copyright 2026 OnyxHQ, Ltd.
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package version holds the client version string. It is kept in its own
// package so both the command layer and the HTTP transport (User-Agent
// header) can reference it without import cycles.
package version

// Version is the semantic version of the onyx client. Overridden at build
// time via -ldflags "-X github.com/onyxhq/onyx-cli/pkg/version.Version=...".
var Version = "dev"
