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

package main

import (
	"context"
	"flag"
	"fmt"

	"go.uber.org/zap"

	"github.com/zoidbergZA/trtl-apps-go/internal/common"
	"github.com/zoidbergZA/trtl-apps-go/internal/config"
	"github.com/zoidbergZA/trtl-apps-go/internal/models"
)

func checkAddress(ctx context.Context, services *common.Services, address string) {
	valid, err := services.App.ValidateAddress(ctx, address, true)
	if err != nil {
		zap.L().Error("Address validation failed", zap.String("address", address), zap.Error(err))
		fmt.Printf("  ✗ Address check failed: %s\n", err)
		return
	}
	if valid {
		fmt.Printf("  ✓ %s is a valid address\n", address)
	} else {
		fmt.Printf("  ✗ %s is not a valid address\n", address)
	}
}

func reconcileJournal(ctx context.Context, services *common.Services) {
	mismatched, err := services.DbService.ReconcileJournal(ctx)
	if err != nil {
		zap.L().Error("Journal reconciliation failed", zap.Error(err))
		fmt.Printf("  ✗ Journal reconciliation failed: %s\n", err)
		return
	}
	if len(mismatched) == 0 {
		fmt.Println("  ✓ Journal balances match their movements")
		return
	}
	for _, accountId := range mismatched {
		fmt.Printf("  ✗ Balance mismatch for account %s\n", accountId)
	}
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	validateFlag := flag.String("validate", "", "Address to validate against the service (optional)")
	appFlag := flag.String("app", "", "App profile from the apps file (optional)")
	reconcileFlag := flag.Bool("reconcile", false, "Check the sqlite journal balances against their movements")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}
	if *appFlag != "" {
		cfg.Client.Profile = *appFlag
	}

	// opening the database creates the schema
	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	common.PrintHeader("TRTL APPS SETUP", common.ReportWidth)
	common.PrintField("", "App ID", services.Client.AppID())
	common.PrintField("", "API base", services.Client.APIBase())
	common.PrintField("", "Database", cfg.Database.Path)
	common.PrintField("", "Journal backend", cfg.Ledger.Backend)
	common.PrintSeparator("-", common.ReportWidth)

	fee, err := services.App.NodeFee(ctx)
	if err != nil {
		fmt.Printf("  ✗ Credentials check failed: %s\n", err)
		common.PrintSeparator("=", common.ReportWidth)
		zap.L().Fatal("Health check failed", zap.Error(err))
	}
	fmt.Println("  ✓ Credentials accepted")
	fmt.Printf("  ✓ Current node fee: %s TRTL\n", common.FormatAmount(fee))
	fmt.Println("  ✓ Database schema ready")

	if *validateFlag != "" {
		checkAddress(ctx, services, *validateFlag)
	}

	if *reconcileFlag {
		if cfg.Ledger.Backend == models.LedgerBackendSQLite {
			reconcileJournal(ctx, services)
		} else {
			fmt.Printf("  - Reconciliation skipped for the %s backend\n", cfg.Ledger.Backend)
		}
	}

	common.PrintSeparator("=", common.ReportWidth)
	zap.L().Info("Setup complete")
}
