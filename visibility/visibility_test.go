package visibility

import (
	"testing"

	"github.com/memoriass/astrbot-plugin-picmenu/auth"
	"github.com/memoriass/astrbot-plugin-picmenu/catalog"
	"github.com/memoriass/astrbot-plugin-picmenu/index"
)

func testIndex(t *testing.T) *index.Index {
	t.Helper()
	snap := catalog.Normalize(&catalog.Snapshot{Plugins: []catalog.PluginMeta{
		{Name: "基础功能", Commands: []catalog.CommandMeta{
			{Name: "help"},
			{Name: "admin_reload"},
			{Name: "_debug"},
		}},
		{Name: "娱乐工具", Commands: []catalog.CommandMeta{{Name: "roll"}}},
		{Name: "_secret", Commands: []catalog.CommandMeta{{Name: "peek"}}},
	}})
	idx, err := index.Build(snap, index.Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return idx
}

func names(entries []index.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var (
	admin = auth.NewIdentity("10001", auth.AuthMethodHeader, auth.RoleAdmin)
	user  = auth.NewIdentity("20002", auth.AuthMethodHeader)
)

func TestPolicy_Plugins(t *testing.T) {
	idx := testIndex(t)

	tests := []struct {
		name   string
		policy Policy
		caller *auth.Identity
		want   []string
	}{
		{"hidden off, user", Policy{ShowHidden: false, AdminOnlyHidden: true}, user, []string{"基础功能", "娱乐工具"}},
		{"hidden off, admin", Policy{ShowHidden: false, AdminOnlyHidden: true}, admin, []string{"基础功能", "娱乐工具"}},
		{"admin only, user", Policy{ShowHidden: true, AdminOnlyHidden: true}, user, []string{"基础功能", "娱乐工具"}},
		{"admin only, anonymous", Policy{ShowHidden: true, AdminOnlyHidden: true}, nil, []string{"基础功能", "娱乐工具"}},
		{"admin only, admin", Policy{ShowHidden: true, AdminOnlyHidden: true}, admin, []string{"_secret", "基础功能", "娱乐工具"}},
		{"everyone, user", Policy{ShowHidden: true, AdminOnlyHidden: false}, user, []string{"_secret", "基础功能", "娱乐工具"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(tt.policy.Plugins(idx, tt.caller))
			if !equal(got, tt.want) {
				t.Errorf("Plugins() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolicy_Commands(t *testing.T) {
	idx := testIndex(t)
	p := Policy{ShowHidden: true, AdminOnlyHidden: true}

	if got := names(p.Commands(idx, "基础功能", user)); !equal(got, []string{"admin_reload", "help"}) {
		t.Errorf("Commands(user) = %v", got)
	}
	if got := names(p.Commands(idx, "基础功能", admin)); !equal(got, []string{"_debug", "admin_reload", "help"}) {
		t.Errorf("Commands(admin) = %v", got)
	}
	// Commands of a hidden plugin inherit its visibility.
	if got := p.Commands(idx, "_secret", user); got != nil {
		t.Errorf("Commands(hidden plugin, user) = %v, want nil", names(got))
	}
	if got := names(p.Commands(idx, "_secret", admin)); !equal(got, []string{"peek"}) {
		t.Errorf("Commands(hidden plugin, admin) = %v", got)
	}
	if got := p.Commands(idx, "missing", admin); got != nil {
		t.Errorf("Commands(missing) = %v, want nil", got)
	}
	if got := p.Plugins(nil, admin); got != nil {
		t.Errorf("Plugins(nil) = %v, want nil", got)
	}
}

func TestPolicy_Restricted(t *testing.T) {
	idx := testIndex(t)
	p := DefaultPolicy()
	reload, ok := idx.Command("基础功能", "admin_reload")
	if !ok {
		t.Fatal("admin_reload not indexed")
	}
	help, _ := idx.Command("基础功能", "help")

	if !p.Restricted(reload, user) {
		t.Error("admin-only command should be restricted for users")
	}
	if !p.Restricted(reload, nil) {
		t.Error("admin-only command should be restricted for anonymous callers")
	}
	if p.Restricted(reload, admin) {
		t.Error("admin-only command should not be restricted for admins")
	}
	if p.Restricted(help, user) {
		t.Error("regular command should not be restricted")
	}
	if !p.Visible(reload, user) {
		t.Error("admin-only command should still be listed")
	}
}

func TestPolicy_Audience(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		caller *auth.Identity
		want   Audience
	}{
		{"admin", DefaultPolicy(), admin, AudienceAdmin},
		{"user default", DefaultPolicy(), user, AudiencePublic},
		{"user hidden for all", Policy{ShowHidden: true}, user, AudienceHidden},
		{"user admin-only hidden", Policy{ShowHidden: true, AdminOnlyHidden: true}, user, AudiencePublic},
		{"anonymous", Policy{ShowHidden: true}, nil, AudienceHidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.Audience(tt.caller); got != tt.want {
				t.Errorf("Audience() = %q, want %q", got, tt.want)
			}
		})
	}
}
