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

	"go.uber.org/zap"

	"github.com/zoidbergZA/trtl-apps-go/internal/common"
	"github.com/zoidbergZA/trtl-apps-go/internal/config"
	"github.com/zoidbergZA/trtl-apps-go/trtl"
)

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	fromFlag := flag.String("from", "", "Sender account label or id (required)")
	toFlag := flag.String("to", "", "Recipients as ACCOUNT:AMOUNT pairs, e.g. bob:1.50,carol:0.25 (required)")
	appFlag := flag.String("app", "", "App profile from the apps file (optional)")
	flag.Parse()

	if *fromFlag == "" || *toFlag == "" {
		zap.L().Fatal("Both --from and --to are required")
	}

	legs, err := common.ParseTransferLegs(*toFlag)
	if err != nil {
		zap.L().Fatal("Invalid recipients", zap.Error(err))
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

	transfer, err := services.App.Transfer(ctx, *fromFlag, legs)
	if err != nil {
		common.PrintHeader("TRANSFER FAILED", common.ReportWidth)
		fmt.Printf("Error: %s\n", err)
		if errors.Is(err, trtl.ErrInsufficientFunds) {
			fmt.Println("\nThe sender's unlocked balance does not cover the transfer.")
		}
		common.PrintSeparator("=", common.ReportWidth)
		zap.L().Fatal("Transfer failed", zap.Error(err))
	}

	common.PrintHeader("TRANSFER COMPLETED", common.ReportWidth)
	common.PrintField("", "Transfer ID", transfer.ID)
	common.PrintField("", "Sender", transfer.SenderID)
	for i, r := range transfer.Recipients {
		common.PrintAmount(common.BoxPrefix(i == len(transfer.Recipients)-1), r.AccountID, r.Amount)
	}
	common.PrintAmount("", "Total", transfer.Total())
	common.PrintSeparator("=", common.ReportWidth)
}
