/**
 * Copyright 2025-present Coinbase Global, Inc.
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

import (
	"github.com/shopspring/decimal"
)

// StatusCode is the numeric outcome carried in every API response envelope.
// The numbering is part of the wire contract and must not be reordered.
type StatusCode int

const (
	StatusSuccess StatusCode = iota
	StatusValidationFailed
	StatusAccountExists
	StatusAccountNotExist
	StatusBalanceNotEnough
	StatusGiverNotExist
	StatusReceiverNotExist
)

var statusNames = [...]string{
	StatusSuccess:          "Success",
	StatusValidationFailed: "ValidationFailed",
	StatusAccountExists:    "AccountExists",
	StatusAccountNotExist:  "AccountNotExist",
	StatusBalanceNotEnough: "BalanceNotEnough",
	StatusGiverNotExist:    "GiverNotExist",
	StatusReceiverNotExist: "ReceiverNotExist",
}

func (c StatusCode) String() string {
	if c < 0 || int(c) >= len(statusNames) {
		return "Unknown"
	}
	return statusNames[c]
}

// Status describes the outcome of a request
type Status struct {
	Code    StatusCode `json:"code"`
	Message string     `json:"message"`
	Detail  string     `json:"detail,omitempty"`
}

func NewStatus(code StatusCode) Status {
	return Status{Code: code, Message: code.String()}
}

// ApiResponse is the envelope returned by every ledger endpoint
type ApiResponse struct {
	Status Status `json:"status"`
	Data   any    `json:"data,omitempty"`
}

// TransactionResult reports the balance of the debited or credited account
// immediately before and after the operation.
type TransactionResult struct {
	BeforeBalance decimal.Decimal `json:"beforeBalance"`
	AfterBalance  decimal.Decimal `json:"afterBalance"`
}

// CreateAccountRequest opens a new account with an opening balance
type CreateAccountRequest struct {
	Name    string          `json:"name" validate:"required"`
	Balance decimal.Decimal `json:"balance" validate:"dmin=0"`
}

// TransactionRequest is the body of deposit and withdraw calls
type TransactionRequest struct {
	Receiver string          `json:"receiver" validate:"required"`
	Amount   decimal.Decimal `json:"amount" validate:"dmin=1"`
}

// TransferRequest moves funds from giver to receiver
type TransferRequest struct {
	Giver    string          `json:"giver" validate:"required"`
	Receiver string          `json:"receiver" validate:"required"`
	Amount   decimal.Decimal `json:"amount" validate:"dmin=1"`
}
