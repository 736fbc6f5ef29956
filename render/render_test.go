package render

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
)

func mainDoc() *Document {
	return &Document{
		Kind:     KindMain,
		Title:    "📚 插件帮助菜单",
		Subtitle: "共 2 个插件",
		Items: []Item{
			{Index: 1, Name: "基础功能", Description: "帮助与状态", Detail: "2 个命令"},
			{Index: 2, Name: "娱乐工具", Description: "小游戏与抽签", Detail: "2 个命令"},
		},
		Page:       1,
		TotalPages: 1,
	}
}

func pluginDoc() *Document {
	return &Document{
		Kind:        KindPlugin,
		Title:       "🔧 娱乐工具",
		Subtitle:    "By astrbot | v1.0.0",
		Description: "小游戏与**抽签**",
		Plugin:      "娱乐工具",
		Items: []Item{
			{Index: 1, Name: "/roll", Description: "掷骰子"},
			{Index: 2, Name: "/reset_admin", Description: "重置", Restricted: true},
		},
	}
}

func TestMarkdown_MainPage(t *testing.T) {
	got := Markdown(mainDoc())

	for _, want := range []string{
		"# 📚 插件帮助菜单\n",
		"*共 2 个插件*",
		"1. **基础功能** - 帮助与状态 (2 个命令)",
		"2. **娱乐工具** - 小游戏与抽签 (2 个命令)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Markdown() missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "页") {
		t.Errorf("Markdown() has a page label for a single page:\n%s", got)
	}
}

func TestMarkdown_KeepsGlobalNumbering(t *testing.T) {
	doc := &Document{
		Kind:       KindMain,
		Title:      "menu",
		Items:      []Item{{Index: 11, Name: "k"}, {Index: 12, Name: "l"}},
		Page:       2,
		TotalPages: 2,
		Notes:      []string{"发送 /help <序号> 查看详情"},
	}
	got := Markdown(doc)

	if !strings.Contains(got, "11. **k**") || !strings.Contains(got, "12. **l**") {
		t.Errorf("Markdown() lost item numbers:\n%s", got)
	}
	if !strings.Contains(got, "第 2/2 页") {
		t.Errorf("Markdown() missing page label:\n%s", got)
	}
	if !strings.Contains(got, `发送 /help \<序号\> 查看详情`) {
		t.Errorf("Markdown() missing escaped note:\n%s", got)
	}
}

func TestMarkdown_RestrictedAndEmpty(t *testing.T) {
	got := Markdown(pluginDoc())
	if !strings.Contains(got, "**/reset\\_admin** `管理员`") {
		t.Errorf("Markdown() missing restricted tag:\n%s", got)
	}

	empty := &Document{Kind: KindPlugin, Title: "🔧 空", Empty: "该插件暂无可用命令"}
	got = Markdown(empty)
	if !strings.Contains(got, "_该插件暂无可用命令_") {
		t.Errorf("Markdown() missing empty message:\n%s", got)
	}
}

func TestMarkdown_CommandSections(t *testing.T) {
	doc := &Document{
		Kind:        KindCommand,
		Title:       "⚡ roll",
		Subtitle:    "娱乐工具",
		Description: "掷骰子",
		Sections: []Section{
			{Heading: "用法", Lines: []string{"/roll [面数]"}},
			{Heading: "别名", Lines: nil},
			{Heading: "示例", Lines: []string{"/roll 20"}},
		},
		Restricted: true,
	}
	got := Markdown(doc)

	for _, want := range []string{"## 用法", "- `/roll [面数]`", "## 示例", "`管理员`"} {
		if !strings.Contains(got, want) {
			t.Errorf("Markdown() missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "## 别名") {
		t.Errorf("Markdown() rendered an empty section:\n%s", got)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		format      string
		wantFormat  string
		contentType string
	}{
		{"html", FormatHTML, "text/html; charset=utf-8"},
		{"ANSI", FormatANSI, "text/plain; charset=utf-8"},
		{"markdown", FormatMarkdown, "text/markdown; charset=utf-8"},
		{"md", FormatMarkdown, "text/markdown; charset=utf-8"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			r, err := New(tt.format)
			if err != nil {
				t.Fatalf("New(%q) error = %v", tt.format, err)
			}
			if r.Format() != tt.wantFormat {
				t.Errorf("Format() = %q, want %q", r.Format(), tt.wantFormat)
			}
			if r.ContentType() != tt.contentType {
				t.Errorf("ContentType() = %q, want %q", r.ContentType(), tt.contentType)
			}
		})
	}

	if _, err := New("png"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("New(png) error = %v, want ErrUnknownFormat", err)
	}
}

func TestRender_RejectsBadInput(t *testing.T) {
	for _, format := range Formats() {
		r, err := New(format)
		if err != nil {
			t.Fatalf("New(%q) error = %v", format, err)
		}

		if _, err := r.Render(context.Background(), nil, Options{}); !errors.Is(err, ErrNilDocument) {
			t.Errorf("%s: Render(nil) error = %v, want ErrNilDocument", format, err)
		}
		if _, err := r.Render(context.Background(), mainDoc(), Options{Theme: "neon"}); !errors.Is(err, ErrUnknownTheme) {
			t.Errorf("%s: Render(neon) error = %v, want ErrUnknownTheme", format, err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := r.Render(ctx, mainDoc(), Options{}); !errors.Is(err, context.Canceled) {
			t.Errorf("%s: Render(cancelled) error = %v, want context.Canceled", format, err)
		}
	}
}

func TestHTMLRenderer_Render(t *testing.T) {
	r := NewHTMLRenderer()

	out, err := r.Render(context.Background(), pluginDoc(), Options{Theme: ThemeDark, Width: 640, FontSize: 20})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	got := string(out)

	for _, want := range []string{
		"<title>🔧 娱乐工具</title>",
		"background: #2b2b2b",
		"width: 640px",
		"font-size: 20px",
		"grid-template-columns: repeat(1, 1fr)",
		"<strong>抽签</strong>",
		`<span class="tag">管理员</span>`,
		"/reset_admin",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Render() missing %q", want)
		}
	}
}

func TestHTMLRenderer_MainPageUsesTwoColumns(t *testing.T) {
	out, err := NewHTMLRenderer().Render(context.Background(), mainDoc(), Options{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	got := string(out)

	if !strings.Contains(got, "grid-template-columns: repeat(2, 1fr)") {
		t.Error("main page should use two columns")
	}
	if !strings.Contains(got, "background: #f5f5f5") {
		t.Error("default theme should be light")
	}
	if !strings.Contains(got, "width: 800px") {
		t.Error("default width should be 800px")
	}
}

func TestHTMLRenderer_EscapesText(t *testing.T) {
	doc := &Document{
		Kind:        KindPlugin,
		Title:       "<script>alert(1)</script>",
		Description: "<b>raw</b> text",
		Empty:       "该插件暂无可用命令",
	}
	out, err := NewHTMLRenderer().Render(context.Background(), doc, Options{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	got := string(out)

	if strings.Contains(got, "<script>") {
		t.Error("title was not escaped")
	}
	if strings.Contains(got, "<b>raw</b>") {
		t.Error("raw HTML in description was not dropped")
	}
	if !strings.Contains(got, "该插件暂无可用命令") {
		t.Error("missing empty message")
	}
}

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func TestANSIRenderer_Render(t *testing.T) {
	r := NewANSIRenderer()

	for _, theme := range ThemeNames() {
		out, err := r.Render(context.Background(), mainDoc(), Options{Theme: theme})
		if err != nil {
			t.Fatalf("Render(%s) error = %v", theme, err)
		}
		plain := ansiEscape.ReplaceAllString(string(out), "")
		for _, want := range []string{"插件帮助菜单", "基础功能", "娱乐工具"} {
			if !strings.Contains(plain, want) {
				t.Errorf("Render(%s) missing %q in:\n%s", theme, want, plain)
			}
		}
	}
}

func TestWrapColumns(t *testing.T) {
	tests := []struct {
		opts Options
		want int
	}{
		{Options{}, 100},
		{Options{Width: 400, FontSize: 16}, 50},
		{Options{Width: 100, FontSize: 16}, minWrap},
		{Options{Width: 4000, FontSize: 16}, maxWrap},
	}
	for _, tt := range tests {
		if got := WrapColumns(tt.opts); got != tt.want {
			t.Errorf("WrapColumns(%+v) = %d, want %d", tt.opts, got, tt.want)
		}
	}
}

func TestLookupTheme(t *testing.T) {
	th, err := LookupTheme("")
	if err != nil || th.Name != ThemeLight {
		t.Errorf("LookupTheme(\"\") = %v, %v, want light", th.Name, err)
	}
	th, err = LookupTheme(" Dark ")
	if err != nil || th.Primary != "#4a9eff" {
		t.Errorf("LookupTheme(Dark) = %+v, %v", th, err)
	}
	if got := ThemeNames(); len(got) != 2 || got[0] != ThemeDark || got[1] != ThemeLight {
		t.Errorf("ThemeNames() = %v", got)
	}
}
