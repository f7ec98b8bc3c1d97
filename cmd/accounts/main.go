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

type reportStats struct {
	totalAccounts int
	failed        int
	unlocked      int64
	locked        int64
}

func printAccount(summary *models.AccountSummary, journalBalance int64) {
	rec := summary.Record
	account := summary.Account

	fmt.Printf("\n┌─ Account: %s\n", rec.DisplayName())
	fmt.Printf("│  ID: %s\n", account.ID)
	common.PrintField("│  ", "Deposit address", account.DepositAddress)
	common.PrintField("│  ", "Payment ID", account.PaymentID)
	common.PrintField("│  ", "Withdraw address", account.WithdrawAddress)
	common.PrintField("│  ", "Created", common.FormatMillis(account.CreatedAt))
	common.PrintAmount("│  ", "Unlocked", account.BalanceUnlocked)
	common.PrintAmount("│  ", "Locked", account.BalanceLocked)

	isLast := len(summary.History) == 0
	common.PrintAmount(common.BoxPrefix(isLast), "Journal", journalBalance)

	for i, m := range summary.History {
		last := i == len(summary.History)-1
		fmt.Printf("%s%-12s %14s TRTL  %s  %s\n",
			common.BoxPrefix(last),
			m.Kind,
			common.FormatAmount(m.Amount),
			m.CreatedAt.Format("2006-01-02 15:04:05"),
			m.Reference)
	}
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	labelFlag := flag.String("label", "", "Filter by account label or id (optional)")
	historyFlag := flag.Int("history", 0, "Number of journal movements to show per account")
	appFlag := flag.String("app", "", "App profile from the apps file (optional)")
	flag.Parse()

	if *historyFlag < 0 {
		logger.Fatal("History must not be negative", zap.Int("history", *historyFlag))
	}

	logger.Info("Starting account report")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if *appFlag != "" {
		cfg.Client.Profile = *appFlag
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	records, err := common.ResolveAccounts(ctx, services.DbService, *labelFlag)
	if err != nil {
		logger.Fatal("Failed to resolve accounts", zap.Error(err))
	}

	common.PrintHeader("ACCOUNT REPORT", common.ReportWidth)

	stats := reportStats{}
	for _, rec := range records {
		stats.totalAccounts++

		summary, err := services.App.AccountSummary(ctx, rec.Id, *historyFlag)
		if err != nil {
			stats.failed++
			logger.Error("Failed to load account",
				zap.String("account_id", rec.Id),
				zap.String("label", rec.Label),
				zap.Error(err))
			continue
		}

		journalBalance, err := services.Journal.Balance(ctx, rec.Id)
		if err != nil {
			logger.Warn("Failed to load journal balance",
				zap.String("account_id", rec.Id),
				zap.Error(err))
		}

		stats.unlocked += summary.Account.BalanceUnlocked
		stats.locked += summary.Account.BalanceLocked
		printAccount(summary, journalBalance)
	}

	summary := fmt.Sprintf("SUMMARY: %d accounts, %s TRTL unlocked, %s TRTL locked (%d failed)",
		stats.totalAccounts, common.FormatAmount(stats.unlocked), common.FormatAmount(stats.locked), stats.failed)
	common.PrintFooter(summary, common.ReportWidth)

	logger.Info("Account report completed",
		zap.Int("accounts", stats.totalAccounts),
		zap.Int("failed", stats.failed))
}
