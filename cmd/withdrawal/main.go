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
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/zoidbergZA/trtl-apps-go/internal/common"
	"github.com/zoidbergZA/trtl-apps-go/internal/config"
	"github.com/zoidbergZA/trtl-apps-go/trtl"
)

type withdrawalRequest struct {
	account string
	amount  int64
	address string
	confirm bool
	app     string
}

func parseAndValidateFlags() (*withdrawalRequest, error) {
	accountFlag := flag.String("account", "", "Account label or id (required)")
	amountFlag := flag.String("amount", "", "Amount to withdraw in TRTL, e.g. 21.50 (required)")
	addressFlag := flag.String("address", "", "Destination address (default: the account's withdraw address)")
	yesFlag := flag.Bool("yes", false, "Confirm the withdrawal without prompting")
	appFlag := flag.String("app", "", "App profile from the apps file (optional)")
	flag.Parse()

	if *accountFlag == "" || *amountFlag == "" {
		return nil, fmt.Errorf("flags --account and --amount are required")
	}

	amount, err := common.ParseAmount(*amountFlag)
	if err != nil {
		return nil, err
	}

	return &withdrawalRequest{
		account: *accountFlag,
		amount:  amount,
		address: *addressFlag,
		confirm: *yesFlag,
		app:     *appFlag,
	}, nil
}

func printPreview(req *withdrawalRequest, preview *trtl.WithdrawalPreview) {
	common.PrintHeader("WITHDRAWAL PREVIEW", common.ReportWidth)
	common.PrintField("", "Account", req.account)
	common.PrintField("", "Preview ID", preview.ID)
	common.PrintField("", "Destination", preview.Address)
	common.PrintAmount("", "Amount", preview.Amount)
	common.PrintAmount("", "Node fee", preview.Fees.NodeFee)
	common.PrintAmount("", "Network fee", preview.Fees.TxFee)
	common.PrintAmount("", "Service fee", preview.Fees.ServiceFee)
	common.PrintSeparator("-", common.ReportWidth)
	common.PrintAmount("", "Total debit", preview.Debit())
	common.PrintSeparator("=", common.ReportWidth)
}

func askConfirmation() bool {
	fmt.Print("\nConfirm withdrawal? [y/N]: ")
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	req, err := parseAndValidateFlags()
	if err != nil {
		zap.L().Fatal("Invalid flags", zap.Error(err))
	}

	zap.L().Info("Starting withdrawal process",
		zap.String("account", req.account),
		zap.String("amount", common.FormatAmount(req.amount)),
		zap.String("address", req.address))

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}
	if req.app != "" {
		cfg.Client.Profile = req.app
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	preview, err := services.App.PreviewWithdrawal(ctx, req.account, req.amount, req.address)
	if err != nil {
		common.PrintHeader("WITHDRAWAL FAILED", common.ReportWidth)
		fmt.Printf("Error: %s\n", err)
		switch {
		case errors.Is(err, trtl.ErrInvalidWithdrawAddress):
			fmt.Println("\nSet a withdraw address on the account or pass --address.")
		case errors.Is(err, trtl.ErrInsufficientFunds):
			fmt.Println("\nThe unlocked balance does not cover the amount plus fees.")
		}
		common.PrintSeparator("=", common.ReportWidth)
		zap.L().Fatal("Withdrawal preview failed", zap.Error(err))
	}

	printPreview(req, preview)

	if !req.confirm && !askConfirmation() {
		fmt.Println("\nWithdrawal cancelled, no funds were moved.")
		return
	}

	withdrawal, err := services.App.ConfirmWithdrawal(ctx, preview.ID)
	if err != nil {
		fmt.Println("\n❌ Withdrawal failed")
		zap.L().Fatal("Withdrawal failed", zap.String("preview_id", preview.ID), zap.Error(err))
	}

	fmt.Printf("\n✅ Withdrawal submitted\n")
	fmt.Printf("   Withdrawal ID: %s\n", withdrawal.ID)
	fmt.Printf("   Status:        %s\n", withdrawal.Status)
	fmt.Printf("   Amount:        %s TRTL\n", common.FormatAmount(withdrawal.Amount))
	fmt.Printf("   Destination:   %s\n\n", withdrawal.Address)

	zap.L().Info("Withdrawal submitted",
		zap.String("withdrawal_id", withdrawal.ID),
		zap.String("status", string(withdrawal.Status)))
}
