package resolve

import (
	"errors"
	"testing"

	"github.com/memoriass/astrbot-plugin-picmenu/catalog"
)

func TestList(t *testing.T) {
	idx := menuIndex(t)
	r := newResolver(false)

	tests := []struct {
		name       string
		nav        Nav
		page       int
		pageSize   int
		wantNumber int
		wantNames  []string
		wantPos    int
		wantPages  int
	}{
		{"first page", Root(), 1, 1, 1, []string{"基础功能"}, 1, 2},
		{"second page keeps global numbering", Root(), 2, 1, 2, []string{"娱乐工具"}, 2, 2},
		{"page below one", Root(), 0, 1, 1, []string{"基础功能"}, 1, 2},
		{"default page size", Root(), 1, 0, 1, []string{"基础功能", "娱乐工具"}, 1, 1},
		{"commands", InPlugin("娱乐工具"), 1, 10, 1, []string{"roll", "抽签"}, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := r.List(idx, tt.nav, user, tt.page, tt.pageSize)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if p.Number != tt.wantNumber || p.TotalPages != tt.wantPages {
				t.Errorf("page %d of %d, want %d of %d", p.Number, p.TotalPages, tt.wantNumber, tt.wantPages)
			}
			if len(p.Items) != len(tt.wantNames) {
				t.Fatalf("Items = %d, want %d", len(p.Items), len(tt.wantNames))
			}
			for i, name := range tt.wantNames {
				if p.Items[i].Entry.Name != name {
					t.Errorf("Items[%d] = %q, want %q", i, p.Items[i].Entry.Name, name)
				}
			}
			if p.Items[0].Position != tt.wantPos {
				t.Errorf("Items[0].Position = %d, want %d", p.Items[0].Position, tt.wantPos)
			}
		})
	}
}

func TestList_Errors(t *testing.T) {
	idx := menuIndex(t)
	r := newResolver(false)

	_, err := r.List(idx, Root(), user, 3, 1)
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Page != 3 {
		t.Errorf("past last page error = %v, want *NotFoundError for page 3", err)
	}
	if _, err := r.List(idx, InPlugin("_secret"), user, 1, 10); !errors.Is(err, ErrNotFound) {
		t.Errorf("hidden plugin error = %v, want ErrNotFound", err)
	}
	if _, err := r.List(nil, Root(), user, 1, 10); !errors.Is(err, ErrNilIndex) {
		t.Errorf("nil index error = %v, want ErrNilIndex", err)
	}
}

func TestList_Empty(t *testing.T) {
	idx := buildIndex(t, catalog.PluginMeta{Name: "空插件"})

	p, err := newResolver(false).List(idx, InPlugin("空插件"), user, 1, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if p.Total != 0 || p.TotalPages != 0 || len(p.Items) != 0 || p.HasNext() {
		t.Errorf("List() = %+v, want an empty first page", p)
	}
}
