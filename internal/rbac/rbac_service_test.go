package rbac_test

import (
	"testing"

	"go-leave/internal/rbac"
	"go-leave/internal/tenant"

	"github.com/stretchr/testify/assert"
)

func TestService_Enforce(t *testing.T) {
	svc, err := rbac.NewService()
	assert.NoError(t, err)

	cases := []struct {
		name     string
		role     tenant.Role
		resource string
		action   string
		want     bool
	}{
		{"manager approves", tenant.RoleManager, "leave", "approve", true},
		{"owner approves", tenant.RoleOwner, "leave", "approve", true},
		{"admin reads audit", tenant.RoleAdmin, "audit", "read", true},
		{"employee creates", tenant.RoleEmployee, "leave", "create", true},
		{"employee cancels", tenant.RoleEmployee, "leave", "cancel", true},
		{"employee may not approve", tenant.RoleEmployee, "leave", "approve", false},
		{"employee may not read audit", tenant.RoleEmployee, "audit", "read", false},
		{"agency has nothing", tenant.RoleAgency, "leave", "create", false},
		{"unknown role has nothing", tenant.Role("GUEST"), "leave", "read", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.Enforce(rbac.EnforceRequest{
				Role:     tc.role,
				Resource: tc.resource,
				Action:   tc.action,
			})
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
