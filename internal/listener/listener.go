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

package listener

import (
	"context"

	"github.com/zoidbergZA/trtl-apps-go/internal/api"
	"github.com/zoidbergZA/trtl-apps-go/internal/models"
	"github.com/zoidbergZA/trtl-apps-go/webhook"
)

// Service is what the webhook server and the poller need from the app service.
type Service interface {
	HandleEvent(ctx context.Context, event webhook.Event) (*models.SyncResult, error)
	SyncDeposit(ctx context.Context, depositId string) (*models.SyncResult, error)
	SyncWithdrawal(ctx context.Context, withdrawalId string) (*models.SyncResult, error)
	HealthCheck(ctx context.Context) error
}

var _ Service = (*api.AppService)(nil)

// ANSI color helpers for console output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

func shortId(id string) string {
	if len(id) > 12 {
		return id[:12] + "..."
	}
	return id
}
