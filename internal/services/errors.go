package services

import (
	"errors"
	"fmt"
)

var (
	// Inventory
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidMoveType   = errors.New("invalid move type")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrSameWarehouse     = errors.New("source and destination warehouse must differ")

	// Workflow state
	ErrInvalidState = errors.New("operation not allowed in current status")

	// Stocktake
	ErrOpenStocktakeExists = errors.New("warehouse already has an open stocktake")
	ErrProductsRequired    = errors.New("partial stocktake requires products")
	ErrItemNotCounted      = errors.New("item has not been counted")
	ErrReasonRequired      = errors.New("a reason is required for a variance")

	// Sales and purchase
	ErrEmptyOrder       = errors.New("order has no valid items")
	ErrNotSupplier      = errors.New("partner is not a supplier")
	ErrNotCustomer      = errors.New("partner is not a customer")
	ErrNothingToReceive = errors.New("no quantity to receive")
	ErrNoSupplier       = errors.New("product has no default supplier")

	// Finance
	ErrCreditFrozen     = errors.New("customer credit is frozen")
	ErrCreditExceeded   = errors.New("credit limit exceeded")
	ErrReceivableExists = errors.New("order already has a receivable")
	ErrOverpayment      = errors.New("payment exceeds unpaid amount")
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrInvalidPeriod    = errors.New("statement period end precedes start")

	// Reports
	ErrUnknownReport = errors.New("unknown report type")

	// Content
	ErrFileTooLarge = errors.New("file exceeds upload limit")

	// Import
	ErrUnknownTemplate  = errors.New("unknown import type")
	ErrUnsupportedFile  = errors.New("unsupported file format")
	ErrUnknownExport    = errors.New("unknown export type")
	ErrEmptyImportFile  = errors.New("import file has no data rows")
	ErrMissingHeaderRow = errors.New("import file has no header row")

	// Assistant
	ErrAITimeout       = errors.New("the AI service timed out, please try again later")
	ErrAIUnavailable   = errors.New("the AI service is unreachable, please check the network")
	ErrAIUnauthorized  = errors.New("the AI service rejected the API key")
	ErrAIFailed        = errors.New("the AI service failed to answer")
	ErrAINotConfigured = errors.New("the AI service is not configured")
	ErrEmptyMessage    = errors.New("message must not be empty")
)

// UncountedItemsError reports how many stocktake items still lack a count
type UncountedItemsError struct {
	Count int
}

func (e *UncountedItemsError) Error() string {
	return fmt.Sprintf("%d items have not been counted", e.Count)
}

// ErrUncountedItems matches any UncountedItemsError through errors.Is
var ErrUncountedItems = &UncountedItemsError{}

func (e *UncountedItemsError) Is(target error) bool {
	_, ok := target.(*UncountedItemsError)
	return ok
}
