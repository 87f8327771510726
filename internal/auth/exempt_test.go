package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultExemptions(t *testing.T) {
	rules := DefaultExemptions("/api/v1")

	tests := []struct {
		name   string
		method string
		path   string
		exempt bool
	}{
		{"product list read", "GET", "/api/v1/products", true},
		{"product by id read", "GET", "/api/v1/products/abc123", true},
		{"product preflight", "OPTIONS", "/api/v1/products", true},
		{"product create", "POST", "/api/v1/products", false},
		{"product delete", "DELETE", "/api/v1/products/abc123", false},
		{"category list read", "GET", "/api/v1/categories", true},
		{"category create", "POST", "/api/v1/categories", false},
		{"uploads read", "GET", "/public/uploads/img-123.png", true},
		{"uploads write", "POST", "/public/uploads/img-123.png", false},
		{"login any method", "POST", "/api/v1/users/login", true},
		{"login get", "GET", "/api/v1/users/login", true},
		{"register", "POST", "/api/v1/users/register", true},
		{"user list", "GET", "/api/v1/users", false},
		{"order list", "GET", "/api/v1/orders", false},
		{"order create", "POST", "/api/v1/orders", false},
		{"total sales", "GET", "/api/v1/orders/get/totalsales", false},
		{"health", "GET", "/health", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.exempt, Exempt(rules, tt.method, tt.path))
		})
	}
}

func TestExemptionRuleMethodCase(t *testing.T) {
	rules := DefaultExemptions("/api/v1")
	assert.True(t, Exempt(rules, "get", "/api/v1/products"))
}
