/**
 * Copyright 2025-present The TRTL Apps Go Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package models

import "context"

type syncSourceKey struct{}

// Sync sources recorded on journal entries
const (
	SourceCLI     = "cli"
	SourceWebhook = "webhook"
	SourcePoller  = "poller"
)

// WithSyncSource marks ctx with what triggered the current sync.
func WithSyncSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, syncSourceKey{}, source)
}

// SyncSource returns the source stored on ctx, or SourceCLI if absent.
func SyncSource(ctx context.Context) string {
	if s, ok := ctx.Value(syncSourceKey{}).(string); ok && s != "" {
		return s
	}
	return SourceCLI
}
