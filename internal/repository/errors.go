package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"erp-service/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate record")
)

// mapError converts gorm errors into repository sentinels
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), strings.Contains(err.Error(), "duplicate key"):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

// GenerateNumber builds a document number like PO-20260115-3FA2.
// The suffix comes from a random UUID so concurrent callers do not collide.
func GenerateNumber(prefix string, now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:4])
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102"), suffix)
}

// GenerateTransactionCode builds an inventory transaction code like TRX-9C1D04AB
func GenerateTransactionCode() string {
	return "TRX-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

// paginate applies offset/limit when a limit is set
func paginate(query *gorm.DB, params models.ListParams) *gorm.DB {
	if params.Page > 0 && params.Limit > 0 {
		query = query.Offset(params.Offset()).Limit(params.Limit)
	}
	return query
}

func likePattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}
