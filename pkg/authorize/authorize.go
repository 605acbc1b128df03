// Package authorize decides which dashboard roles may read or write which
// resources, using an in-code Casbin RBAC model.
package authorize

import (
	"errors"
	"fmt"
	"net/http"

	casbin "github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

var ErrForbidden = errors.New("forbidden")

type Action string

const (
	ActionRead  Action = "read"
	ActionWrite Action = "write"
	wildcard           = "*"
)

// ActionForMethod maps safe HTTP methods to read and everything else to write.
func ActionForMethod(method string) Action {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ActionRead
	default:
		return ActionWrite
	}
}

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (g(r.sub, p.sub) || r.sub == p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// Policy is one allow rule: role may perform action on resource. Use "*" as
// a wildcard for either.
type Policy struct {
	Role     string
	Resource string
	Action   string
}

type Authorizer struct {
	enforcer *casbin.Enforcer
}

func New(policies []Policy) (*Authorizer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rbac model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create enforcer: %w", err)
	}
	for _, p := range policies {
		if _, err := e.AddPolicy(p.Role, p.Resource, p.Action); err != nil {
			return nil, fmt.Errorf("failed to add policy %v: %w", p, err)
		}
	}
	return &Authorizer{enforcer: e}, nil
}

func (a *Authorizer) Allowed(role, resource string, action Action) (bool, error) {
	return a.enforcer.Enforce(role, resource, string(action))
}

// MustAllow returns ErrForbidden when the role lacks the permission.
func (a *Authorizer) MustAllow(role, resource string, action Action) error {
	ok, err := a.Allowed(role, resource, action)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}
