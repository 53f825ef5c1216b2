package models

import (
	"testing"
	"time"
)

func TestSetDiscountRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     SetDiscountRequest
		wantErr bool
	}{
		{name: "valid percentage", req: SetDiscountRequest{Amount: 10, Kind: "percentage"}, wantErr: false},
		{name: "valid fixed", req: SetDiscountRequest{Amount: 100, Kind: "fixed"}, wantErr: false},
		{name: "zero amount is a valid reset", req: SetDiscountRequest{Amount: 0, Kind: "percentage"}, wantErr: false},
		{name: "unknown kind", req: SetDiscountRequest{Amount: 10, Kind: "loyalty"}, wantErr: true},
		{name: "empty kind", req: SetDiscountRequest{Amount: 10, Kind: ""}, wantErr: true},
		{name: "negative amount", req: SetDiscountRequest{Amount: -5, Kind: "fixed"}, wantErr: true},
		{name: "percentage above 100", req: SetDiscountRequest{Amount: 101, Kind: "percentage"}, wantErr: true},
		{name: "fixed above 100 is fine", req: SetDiscountRequest{Amount: 500, Kind: "fixed"}, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSetOrderTypeRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     SetOrderTypeRequest
		wantErr bool
	}{
		{name: "dine in", req: SetOrderTypeRequest{OrderType: "dine_in"}, wantErr: false},
		{name: "take away", req: SetOrderTypeRequest{OrderType: "take_away"}, wantErr: false},
		{name: "delivery", req: SetOrderTypeRequest{OrderType: "delivery"}, wantErr: false},
		{name: "unknown type", req: SetOrderTypeRequest{OrderType: "drive_through"}, wantErr: true},
		{name: "empty type", req: SetOrderTypeRequest{OrderType: ""}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSetTableRequest_Validate(t *testing.T) {
	table := func(n int) *int { return &n }

	tests := []struct {
		name    string
		req     SetTableRequest
		wantErr bool
	}{
		{name: "valid table", req: SetTableRequest{TableNumber: table(7)}, wantErr: false},
		{name: "nil clears the table", req: SetTableRequest{TableNumber: nil}, wantErr: false},
		{name: "table zero", req: SetTableRequest{TableNumber: table(0)}, wantErr: true},
		{name: "table above range", req: SetTableRequest{TableNumber: table(101)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckoutRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CheckoutRequest
		wantErr bool
	}{
		{name: "valid name", req: CheckoutRequest{CashierName: "Sam O'Neil"}, wantErr: false},
		{name: "hyphenated name", req: CheckoutRequest{CashierName: "Mary-Jane"}, wantErr: false},
		{name: "empty name", req: CheckoutRequest{CashierName: ""}, wantErr: true},
		{name: "digits rejected", req: CheckoutRequest{CashierName: "Sam 2"}, wantErr: true},
		{name: "markup rejected", req: CheckoutRequest{CashierName: "Sam<script>"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateOrderNumber(t *testing.T) {
	date := time.Date(2026, 9, 1, 15, 4, 5, 0, time.UTC)

	if got := GenerateOrderNumber(date, 1); got != "ORD_20260901_001" {
		t.Fatalf("GenerateOrderNumber = %q, want ORD_20260901_001", got)
	}
	if got := GenerateOrderNumber(date, 42); got != "ORD_20260901_042" {
		t.Fatalf("GenerateOrderNumber = %q, want ORD_20260901_042", got)
	}
	if got := GenerateOrderNumber(date, 1000); got != "ORD_20260901_1000" {
		t.Fatalf("GenerateOrderNumber = %q, want ORD_20260901_1000", got)
	}
}
