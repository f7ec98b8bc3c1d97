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
	"errors"
	"flag"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/zoidbergZA/trtl-apps-go/internal/common"
	"github.com/zoidbergZA/trtl-apps-go/internal/config"
	"github.com/zoidbergZA/trtl-apps-go/internal/store"
)

var labelRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._\-]{0,63}$`)

func validateLabel(label string) error {
	if label == "" {
		return fmt.Errorf("label cannot be empty")
	}
	if !labelRegex.MatchString(label) {
		return fmt.Errorf("invalid label %q: use letters, digits, '.', '_' or '-' (max 64 characters)", label)
	}
	return nil
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	labelFlag := flag.String("label", "", "Local label for the new account (required)")
	withdrawFlag := flag.String("withdraw-address", "", "Withdraw address to set on the account (optional)")
	appFlag := flag.String("app", "", "App profile from the apps file (optional)")
	flag.Parse()

	if err := validateLabel(*labelFlag); err != nil {
		zap.L().Fatal("Invalid label", zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}
	if *appFlag != "" {
		cfg.Client.Profile = *appFlag
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	if *withdrawFlag != "" {
		valid, err := services.App.ValidateAddress(ctx, *withdrawFlag, false)
		if err != nil {
			zap.L().Fatal("Failed to validate withdraw address", zap.Error(err))
		}
		if !valid {
			zap.L().Fatal("Withdraw address is not valid", zap.String("address", *withdrawFlag))
		}
	}

	record, err := services.App.CreateAccount(ctx, *labelFlag, *withdrawFlag)
	if err != nil {
		if errors.Is(err, store.ErrLabelTaken) {
			zap.L().Fatal("Label already registered", zap.String("label", *labelFlag))
		}
		zap.L().Fatal("Failed to create account", zap.Error(err))
	}

	common.PrintHeader("ACCOUNT CREATED", common.ReportWidth)
	common.PrintField("", "Label", record.Label)
	common.PrintField("", "Account ID", record.Id)
	common.PrintField("", "App ID", record.AppId)
	common.PrintField("", "Deposit address", record.DepositAddress)
	common.PrintField("", "Payment ID", record.PaymentId)
	common.PrintField("", "Withdraw address", record.WithdrawAddress)
	common.PrintSeparator("=", common.ReportWidth)

	if *withdrawFlag != "" && record.WithdrawAddress == "" {
		fmt.Println("\nWithdraw address could not be set; retry later with the account id above.")
	}

	zap.L().Info("Account creation completed",
		zap.String("account_id", record.Id),
		zap.String("label", record.Label))
}
