package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/memoriass/astrbot-plugin-picmenu/auth"
	"github.com/memoriass/astrbot-plugin-picmenu/catalog"
	"github.com/memoriass/astrbot-plugin-picmenu/index"
	"github.com/memoriass/astrbot-plugin-picmenu/match"
	"github.com/memoriass/astrbot-plugin-picmenu/visibility"
)

var (
	admin = auth.NewIdentity("10001", auth.AuthMethodHeader, auth.RoleAdmin)
	user  = auth.NewIdentity("20002", auth.AuthMethodHeader)
)

func buildIndex(t *testing.T, plugins ...catalog.PluginMeta) *index.Index {
	t.Helper()
	idx, err := index.Build(catalog.Normalize(&catalog.Snapshot{Plugins: plugins}), index.Options{
		Phonetic: true,
		Matcher:  match.NewPinyin(),
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return idx
}

// menuIndex is the two-plugin catalog used throughout the package docs.
func menuIndex(t *testing.T) *index.Index {
	return buildIndex(t,
		catalog.PluginMeta{Name: "基础功能", Commands: []catalog.CommandMeta{
			{Name: "help", Aliases: []string{"帮助"}},
			{Name: "status"},
		}},
		catalog.PluginMeta{Name: "娱乐工具", Description: "小游戏与抽签", Commands: []catalog.CommandMeta{
			{Name: "roll", Aliases: []string{"r"}, Description: "掷骰子"},
			{Name: "抽签", Aliases: []string{"r"}},
		}},
		catalog.PluginMeta{Name: "_secret", Commands: []catalog.CommandMeta{{Name: "peek"}}},
	)
}

func newResolver(phonetic bool) *Resolver {
	opts := DefaultOptions()
	if phonetic {
		opts.Phonetic = true
		opts.Matcher = match.NewPinyin()
	}
	return New(opts)
}

func TestResolve(t *testing.T) {
	idx := menuIndex(t)

	tests := []struct {
		name     string
		phonetic bool
		query    string
		nav      Nav
		want     string
		strategy Strategy
	}{
		{"numeric", false, "1", Root(), "基础功能", StrategyNumeric},
		{"full-width numeric", false, "２", Root(), "娱乐工具", StrategyNumeric},
		{"exact name", false, "基础功能", Root(), "基础功能", StrategyExact},
		{"exact ignores case and spacing", false, "  HELP ", InPlugin("基础功能"), "help", StrategyExact},
		{"exact alias", false, "帮助", InPlugin("基础功能"), "help", StrategyExact},
		{"fuzzy prefix", false, "基础", Root(), "基础功能", StrategyFuzzy},
		{"phonetic abbreviation", true, "jc", Root(), "基础功能", StrategyPhonetic},
		{"phonetic full", true, "yule", Root(), "娱乐工具", StrategyPhonetic},
		{"phonetic from han prefix", true, "基础", Root(), "基础功能", StrategyPhonetic},
		{"plugin description", false, "小游戏", Root(), "娱乐工具", StrategyFuzzy},
		{"command description", false, "掷骰子", InPlugin("娱乐工具"), "roll", StrategyFuzzy},
		{"sibling command", false, "status", InCommand("基础功能", "help"), "status", StrategyExact},
		{"numeric in plugin", false, "2", InPlugin("基础功能"), "status", StrategyNumeric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := newResolver(tt.phonetic).Resolve(context.Background(), tt.query, tt.nav, idx, user)
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.query, err)
			}
			if m.Kind != Exact {
				t.Errorf("Resolve(%q).Kind = %v, want exact", tt.query, m.Kind)
			}
			if m.Best.Entry.Name != tt.want {
				t.Errorf("Resolve(%q).Best = %q, want %q", tt.query, m.Best.Entry.Name, tt.want)
			}
			if m.Strategy != tt.strategy {
				t.Errorf("Resolve(%q).Strategy = %q, want %q", tt.query, m.Strategy, tt.strategy)
			}
		})
	}
}

func TestResolve_NotFound(t *testing.T) {
	idx := menuIndex(t)

	tests := []struct {
		name  string
		query string
		nav   Nav
	}{
		{"out of range", "99", Root()},
		{"zero", "0", Root()},
		{"huge number", "99999999999999999999999", Root()},
		{"empty", "   ", Root()},
		{"no similarity", "zzzz", Root()},
		{"hidden plugin", "_secret", Root()},
		{"inside hidden plugin", "peek", InPlugin("_secret")},
		{"unknown plugin", "help", InPlugin("missing")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newResolver(true).Resolve(context.Background(), tt.query, tt.nav, idx, user)
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("Resolve(%q) error = %v, want ErrNotFound", tt.query, err)
			}
			var nf *NotFoundError
			if !errors.As(err, &nf) || nf.Query != tt.query || nf.Nav != tt.nav {
				t.Errorf("Resolve(%q) error = %#v, want query and nav echoed", tt.query, err)
			}
		})
	}
}

func TestResolve_Numeric(t *testing.T) {
	idx := menuIndex(t)
	r := newResolver(false)

	m, err := r.Resolve(context.Background(), "2", Root(), idx, user)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if m.Best.Position != 2 || m.Best.Score != 100 || len(m.Ranked) != 1 {
		t.Errorf("Resolve(2) = %+v, want position 2, score 100, one ranked", m.Best)
	}

	// The numeric index counts visible entries only.
	r = New(Options{Visibility: visibility.Policy{ShowHidden: true, AdminOnlyHidden: true}})
	m, err = r.Resolve(context.Background(), "1", Root(), idx, admin)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if m.Best.Entry.Name != "_secret" {
		t.Errorf("admin Resolve(1) = %q, want _secret", m.Best.Entry.Name)
	}
	m, err = r.Resolve(context.Background(), "1", Root(), idx, user)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if m.Best.Entry.Name != "基础功能" {
		t.Errorf("user Resolve(1) = %q, want 基础功能", m.Best.Entry.Name)
	}
}

func TestResolve_ExactAmbiguity(t *testing.T) {
	idx := menuIndex(t)

	_, err := newResolver(false).Resolve(context.Background(), "r", InPlugin("娱乐工具"), idx, user)
	if !errors.Is(err, ErrAmbiguous) {
		t.Fatalf("Resolve(r) error = %v, want ErrAmbiguous", err)
	}
	var amb *AmbiguityError
	if !errors.As(err, &amb) {
		t.Fatalf("Resolve(r) error type = %T, want *AmbiguityError", err)
	}
	if len(amb.Candidates) != 2 {
		t.Fatalf("Candidates = %d, want 2", len(amb.Candidates))
	}
	// Candidates keep visible order: 抽签 sorts after roll.
	if amb.Candidates[0].Entry.Name != "roll" || amb.Candidates[1].Entry.Name != "抽签" {
		t.Errorf("Candidates = %q, %q", amb.Candidates[0].Entry.Name, amb.Candidates[1].Entry.Name)
	}
	if amb.Candidates[1].Position != 2 {
		t.Errorf("Candidates[1].Position = %d, want 2", amb.Candidates[1].Position)
	}
}

func TestResolve_PhoneticSeveral(t *testing.T) {
	idx := buildIndex(t,
		catalog.PluginMeta{Name: "基础功能"},
		catalog.PluginMeta{Name: "基础设置"},
		catalog.PluginMeta{Name: "娱乐工具"},
	)
	opts := DefaultOptions()
	opts.Phonetic = true
	opts.Matcher = match.NewPinyin()
	opts.AutoSelect = false

	m, err := New(opts).Resolve(context.Background(), "jc", Root(), idx, user)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if m.Kind != FuzzyRanked || m.Strategy != StrategyPhonetic {
		t.Fatalf("Resolve(jc) = %v/%s, want fuzzy_ranked/phonetic", m.Kind, m.Strategy)
	}
	if len(m.Ranked) != 2 {
		t.Fatalf("Ranked = %d, want 2", len(m.Ranked))
	}
	for _, c := range m.Ranked {
		if c.Entry.Name == "娱乐工具" {
			t.Errorf("Ranked contains %q", c.Entry.Name)
		}
	}
	if m.Ranked[0].Score < m.Ranked[1].Score {
		t.Errorf("Ranked not sorted: %d before %d", m.Ranked[0].Score, m.Ranked[1].Score)
	}
	if m.Best.Entry.ID != m.Ranked[0].Entry.ID {
		t.Errorf("Best = %q, want first ranked %q", m.Best.Entry.ID, m.Ranked[0].Entry.ID)
	}
}

func TestResolve_FuzzyTies(t *testing.T) {
	idx := buildIndex(t,
		catalog.PluginMeta{Name: "系统工具"},
		catalog.PluginMeta{Name: "娱乐工具"},
	)

	m, err := newResolver(false).Resolve(context.Background(), "工具", Root(), idx, user)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if m.Kind != FuzzyRanked {
		t.Fatalf("Kind = %v, want fuzzy_ranked for a tie", m.Kind)
	}
	// Equal scores fall back to visible position.
	if m.Ranked[0].Position != 1 || m.Ranked[1].Position != 2 {
		t.Errorf("positions = %d, %d, want 1, 2", m.Ranked[0].Position, m.Ranked[1].Position)
	}
	if m.Ranked[0].Score != m.Ranked[1].Score || m.Ranked[0].Score != 67 {
		t.Errorf("scores = %d, %d, want 67, 67", m.Ranked[0].Score, m.Ranked[1].Score)
	}
}

func TestResolve_AutoSelect(t *testing.T) {
	idx := menuIndex(t)

	opts := DefaultOptions()
	opts.AutoSelect = false
	m, err := New(opts).Resolve(context.Background(), "基础", Root(), idx, user)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if m.Kind != FuzzyRanked {
		t.Errorf("Kind = %v, want fuzzy_ranked without auto-select", m.Kind)
	}
	if m.Best.Score != 67 {
		t.Errorf("Best.Score = %d, want 67", m.Best.Score)
	}
}

func TestResolve_Threshold(t *testing.T) {
	idx := menuIndex(t)

	tests := []struct {
		threshold int
		wantErr   bool
	}{
		{60, false},
		{67, false},
		{68, true},
		{250, true},
	}

	for _, tt := range tests {
		opts := DefaultOptions()
		opts.Threshold = tt.threshold
		_, err := New(opts).Resolve(context.Background(), "基础", Root(), idx, user)
		if gotErr := errors.Is(err, ErrNotFound); gotErr != tt.wantErr {
			t.Errorf("threshold %d: error = %v, wantErr %v", tt.threshold, err, tt.wantErr)
		}
	}
}

func TestResolve_DescriptionWeight(t *testing.T) {
	idx := menuIndex(t)
	r := newResolver(false)

	m, err := r.Resolve(context.Background(), "小游戏", Root(), idx, user)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if m.Best.Score != 70 {
		t.Errorf("plugin description score = %d, want 70", m.Best.Score)
	}

	m, err = r.Resolve(context.Background(), "掷骰子", InPlugin("娱乐工具"), idx, user)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if m.Best.Score != 80 {
		t.Errorf("command description score = %d, want 80", m.Best.Score)
	}
}

func TestResolve_Restricted(t *testing.T) {
	idx := buildIndex(t, catalog.PluginMeta{Name: "基础功能", Commands: []catalog.CommandMeta{
		{Name: "admin_reload"},
		{Name: "help"},
	}})
	r := newResolver(false)

	for _, tt := range []struct {
		caller *auth.Identity
		want   bool
	}{{user, true}, {admin, false}, {nil, true}} {
		m, err := r.Resolve(context.Background(), "1", InPlugin("基础功能"), idx, tt.caller)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if m.Best.Entry.ID != "admin_reload" {
			t.Fatalf("Best = %q, want admin_reload", m.Best.Entry.ID)
		}
		if m.Best.Restricted != tt.want {
			t.Errorf("Restricted = %v for %v, want %v", m.Best.Restricted, tt.caller, tt.want)
		}
	}
}

func TestResolve_Deterministic(t *testing.T) {
	idx := buildIndex(t,
		catalog.PluginMeta{Name: "系统工具"},
		catalog.PluginMeta{Name: "娱乐工具"},
		catalog.PluginMeta{Name: "工具箱"},
	)
	r := newResolver(true)

	first, err := r.Resolve(context.Background(), "工具", Root(), idx, user)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	for range 20 {
		m, err := r.Resolve(context.Background(), "工具", Root(), idx, user)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if len(m.Ranked) != len(first.Ranked) {
			t.Fatalf("Ranked length changed: %d vs %d", len(m.Ranked), len(first.Ranked))
		}
		for i := range m.Ranked {
			if m.Ranked[i].Entry.ID != first.Ranked[i].Entry.ID || m.Ranked[i].Score != first.Ranked[i].Score {
				t.Fatalf("Ranked[%d] changed between calls", i)
			}
		}
	}
}

func TestResolve_InvalidInput(t *testing.T) {
	r := newResolver(false)

	if _, err := r.Resolve(context.Background(), "1", Root(), nil, user); !errors.Is(err, ErrNilIndex) {
		t.Errorf("nil index error = %v, want ErrNilIndex", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Resolve(ctx, "1", Root(), menuIndex(t), user); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled error = %v, want context.Canceled", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	r := New(Options{Threshold: -5, Phonetic: true})
	opts := r.Options()
	if opts.Threshold != 0 {
		t.Errorf("Threshold = %d, want 0", opts.Threshold)
	}
	if opts.PageSize != DefaultPageSize {
		t.Errorf("PageSize = %d, want %d", opts.PageSize, DefaultPageSize)
	}
	if opts.Phonetic {
		t.Error("Phonetic should be off without a matcher")
	}
}
