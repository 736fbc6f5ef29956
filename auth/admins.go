package auth

import (
	"sort"
	"strings"
)

// AdminList is the configured set of administrator principals.
type AdminList struct {
	principals map[string]struct{}
}

// NewAdminList creates an AdminList from principals. Blank entries are
// ignored and surrounding whitespace is trimmed.
func NewAdminList(principals ...string) *AdminList {
	l := &AdminList{principals: make(map[string]struct{}, len(principals))}
	for _, p := range principals {
		if p = strings.TrimSpace(p); p != "" {
			l.principals[p] = struct{}{}
		}
	}
	return l
}

// ParseAdminList parses a comma-separated principal list such as
// "10001, 10002".
func ParseAdminList(s string) *AdminList {
	return NewAdminList(strings.Split(s, ",")...)
}

// Contains reports whether principal is an administrator.
func (l *AdminList) Contains(principal string) bool {
	if l == nil {
		return false
	}
	_, ok := l.principals[principal]
	return ok
}

// Len returns the number of administrators.
func (l *AdminList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.principals)
}

// Principals returns the administrators in sorted order.
func (l *AdminList) Principals() []string {
	if l == nil {
		return nil
	}
	out := make([]string, 0, len(l.principals))
	for p := range l.principals {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Identify returns an identity for principal, granting RoleAdmin when the
// principal is listed. An empty principal yields an anonymous identity.
func (l *AdminList) Identify(principal string, method AuthMethod) *Identity {
	principal = strings.TrimSpace(principal)
	if principal == "" {
		return AnonymousIdentity()
	}
	id := NewIdentity(principal, method)
	l.Grant(id)
	return id
}

// Grant adds RoleAdmin to id when its principal is listed.
func (l *AdminList) Grant(id *Identity) {
	if id == nil || !l.Contains(id.Principal) || id.HasRole(RoleAdmin) {
		return
	}
	id.Roles = append(id.Roles, RoleAdmin)
}
