package auth

import (
	"reflect"
	"testing"
)

func TestParseAdminList(t *testing.T) {
	l := ParseAdminList(" 10002, 10001 ,,  ")

	if l.Len() != 2 {
		t.Errorf("Len() = %d, want 2", l.Len())
	}
	if !reflect.DeepEqual(l.Principals(), []string{"10001", "10002"}) {
		t.Errorf("Principals() = %v, want [10001 10002]", l.Principals())
	}
	if !l.Contains("10001") || l.Contains("10003") || l.Contains("") {
		t.Error("Contains() returned wrong membership")
	}
}

func TestAdminList_Identify(t *testing.T) {
	l := NewAdminList("10001")

	admin := l.Identify("10001", AuthMethodHeader)
	if !admin.IsAdmin() {
		t.Error("listed principal should be admin")
	}
	if admin.Method != AuthMethodHeader {
		t.Errorf("Method = %q, want %q", admin.Method, AuthMethodHeader)
	}

	user := l.Identify("20002", AuthMethodHeader)
	if user.IsAdmin() {
		t.Error("unlisted principal should not be admin")
	}

	if anon := l.Identify("  ", AuthMethodHeader); !anon.IsAnonymous() {
		t.Error("blank principal should be anonymous")
	}
}

func TestAdminList_GrantIdempotent(t *testing.T) {
	l := NewAdminList("10001")
	id := NewIdentity("10001", AuthMethodJWT, RoleAdmin)

	l.Grant(id)
	if len(id.Roles) != 1 {
		t.Errorf("Roles = %v, want single admin role", id.Roles)
	}

	var nilList *AdminList
	nilList.Grant(id)
	if nilList.Len() != 0 || nilList.Contains("10001") || nilList.Principals() != nil {
		t.Error("nil AdminList should be empty")
	}
}
