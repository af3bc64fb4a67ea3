package domain

import "fmt"

// Operation identifies a protected operation for policy lookup.
type Operation string

const (
	OpProductList           Operation = "product.list"
	OpProductGet            Operation = "product.get"
	OpProductCreate         Operation = "product.create"
	OpProductUpdate         Operation = "product.update"
	OpProductDelete         Operation = "product.delete"
	OpUserMe                Operation = "user.me"
	OpRegisterAdministrator Operation = "user.register_administrator"
)

// Policy maps each protected operation to the set of roles allowed to invoke it.
type Policy struct {
	rules map[Operation]map[Role]struct{}
}

// NewPolicy builds a Policy from a table of operation -> allowed roles.
// It rejects empty role sets and roles outside the enumeration.
func NewPolicy(table map[Operation][]Role) (*Policy, error) {
	rules := make(map[Operation]map[Role]struct{}, len(table))
	for op, roles := range table {
		if len(roles) == 0 {
			return nil, fmt.Errorf("policy for %q has no allowed roles", op)
		}
		set := make(map[Role]struct{}, len(roles))
		for _, r := range roles {
			if !r.Valid() {
				return nil, fmt.Errorf("policy for %q: unknown role %q", op, r)
			}
			set[r] = struct{}{}
		}
		rules[op] = set
	}
	return &Policy{rules: rules}, nil
}

// DefaultPolicy is the policy table the API is served with.
func DefaultPolicy() *Policy {
	p, err := NewPolicy(map[Operation][]Role{
		OpProductList:           {RoleAdministrator, RoleCustomer},
		OpProductGet:            {RoleAdministrator, RoleCustomer},
		OpProductCreate:         {RoleAdministrator},
		OpProductUpdate:         {RoleAdministrator},
		OpProductDelete:         {RoleAdministrator},
		OpUserMe:                {RoleAdministrator, RoleCustomer},
		OpRegisterAdministrator: {RoleAdministrator},
	})
	if err != nil {
		panic(err)
	}
	return p
}

// Has reports whether op has a declared policy.
func (p *Policy) Has(op Operation) bool {
	_, ok := p.rules[op]
	return ok
}

// Authorize returns nil when id's role is allowed to invoke op, ErrForbidden
// when it is not, and ErrUnknownOperation when op has no policy at all.
func (p *Policy) Authorize(op Operation, id Identity) error {
	allowed, ok := p.rules[op]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOperation, op)
	}
	if _, ok := allowed[id.Role]; !ok {
		return ErrForbidden
	}
	return nil
}
