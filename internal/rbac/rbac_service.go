package rbac

import (
	"sync"

	"go-leave/internal/tenant"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// rolePermissions is the static permission table: which membership roles may
// do what. Tenancy itself is not encoded here; every request already runs
// inside one tenant's context.
var rolePermissions = [][3]string{
	{string(tenant.RoleOwner), "leave", "approve"},
	{string(tenant.RoleAdmin), "leave", "approve"},
	{string(tenant.RoleManager), "leave", "approve"},

	{string(tenant.RoleOwner), "audit", "read"},
	{string(tenant.RoleAdmin), "audit", "read"},
	{string(tenant.RoleManager), "audit", "read"},

	{string(tenant.RoleOwner), "leave", "create"},
	{string(tenant.RoleAdmin), "leave", "create"},
	{string(tenant.RoleManager), "leave", "create"},
	{string(tenant.RoleEmployee), "leave", "create"},

	{string(tenant.RoleOwner), "leave", "cancel"},
	{string(tenant.RoleAdmin), "leave", "cancel"},
	{string(tenant.RoleManager), "leave", "cancel"},
	{string(tenant.RoleEmployee), "leave", "cancel"},

	{string(tenant.RoleOwner), "leave", "read"},
	{string(tenant.RoleAdmin), "leave", "read"},
	{string(tenant.RoleManager), "leave", "read"},
	{string(tenant.RoleEmployee), "leave", "read"},
}

type EnforceRequest struct {
	Role     tenant.Role
	Resource string
	Action   string
}

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(req EnforceRequest) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

func NewService() (Service, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range rolePermissions {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}

	return &service{enforcer: enforcer}, nil
}

func (s *service) Enforce(req EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.enforcer.Enforce(string(req.Role), req.Resource, req.Action)
}
