package services

import (
	"context"
	"errors"
	"testing"

	"erp-service/internal/models"
	"erp-service/internal/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestModuleFromPath(t *testing.T) {
	cases := map[string]string{
		"/api/v1/orders/123/ship": "orders",
		"/api/v1/stock":           "stock",
		"/health":                 "",
		"/api/v2/orders":          "",
	}
	for path, want := range cases {
		assert.Equal(t, want, ModuleFromPath(path), path)
	}
}

func TestAuditRecord(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockAuditRepository)
	service := &AuditService{repo: repo, logger: testLogger()}

	repo.On("CreateAuditLog", ctx, mock.MatchedBy(func(l *models.AuditLog) bool {
		return l.Module == "purchase-orders" && l.Action == "update" && l.UserID == "u1" &&
			l.Target == "/api/v1/purchase-orders/1/approve" && string(l.Details) == `{"method":"PUT","status":200}`
	})).Return(nil).Once()
	repo.On("CreateAuditLog", ctx, mock.MatchedBy(func(l *models.AuditLog) bool {
		return l.Action == "create"
	})).Return(errors.New("db down")).Once()

	service.Record(ctx, AuditEntry{TenantID: "t", UserID: "u1", Method: "PUT", Path: "/api/v1/purchase-orders/1/approve", Status: 200})
	assert.NotPanics(t, func() {
		service.Record(ctx, AuditEntry{TenantID: "t", Method: "POST", Path: "/api/v1/orders", Status: 201})
	})
	repo.AssertExpectations(t)
}
