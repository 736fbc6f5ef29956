package menu

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/memoriass/astrbot-plugin-picmenu/auth"
	"github.com/memoriass/astrbot-plugin-picmenu/cache"
	"github.com/memoriass/astrbot-plugin-picmenu/health"
	"github.com/memoriass/astrbot-plugin-picmenu/index"
	"github.com/memoriass/astrbot-plugin-picmenu/observe"
	"github.com/memoriass/astrbot-plugin-picmenu/resilience"
)

// Status is the administrative summary of the service.
type Status struct {
	Plugins      int           `json:"plugins"`
	Commands     int           `json:"commands"`
	Theme        string        `json:"theme"`
	Format       string        `json:"format"`
	CacheEntries int           `json:"cache_entries"`
	CacheEnabled bool          `json:"cache_enabled"`
	CacheTTL     time.Duration `json:"cache_ttl"`
	Threshold    int           `json:"fuzzy_threshold"`
	Admins       int           `json:"admins"`
	Phonetic     bool          `json:"phonetic"`

	Health health.Summary        `json:"-"`
	Cache  cache.Stats           `json:"cache"`
	Index  index.Stats           `json:"index"`
	Guard  resilience.GuardStats `json:"-"`
}

// Text renders the status as the multi-line chat reply.
func (st *Status) Text() string {
	pinyin := "❌ 禁用"
	if st.Phonetic {
		pinyin = "✅ 启用"
	}
	lines := []string{
		"📊 PicMenu 状态",
		fmt.Sprintf("🔌 已加载插件: %d", st.Plugins),
		fmt.Sprintf("🎨 当前主题: %s", st.Theme),
		fmt.Sprintf("💾 缓存图片数: %d", st.CacheEntries),
		fmt.Sprintf("🔍 模糊搜索阈值: %d", st.Threshold),
		fmt.Sprintf("👥 管理员数量: %d", st.Admins),
		fmt.Sprintf("🈯 拼音搜索: %s", pinyin),
		fmt.Sprintf("⏰ 缓存过期时间: %d分钟", int(st.CacheTTL/time.Minute)),
	}
	if len(st.Health.Checks) > 0 {
		lines = append(lines, fmt.Sprintf("🩺 健康状态: %s", st.Health.Status))
	}
	return strings.Join(lines, "\n")
}

// Status reports index, cache and health state. It requires the admin
// role.
func (s *Service) Status(ctx context.Context, caller *auth.Identity) (*Status, error) {
	return observe.Run(ctx, s.mw, s.op(ctx, "status"), func(ctx context.Context) (*Status, error) {
		if err := s.Authorize(ctx, caller, auth.ActionStatus); err != nil {
			return nil, err
		}

		ropts := s.resolver.Options()
		policy := s.cache.Policy()
		st := &Status{
			Theme:        s.renderOpts.Theme,
			Format:       s.renderer.Format(),
			CacheEnabled: policy.ShouldCache(),
			CacheTTL:     policy.TTL,
			Threshold:    ropts.Threshold,
			Admins:       s.admins.Len(),
			Phonetic:     ropts.Phonetic,
			Index:        s.holder.Stats(),
			Guard:        s.guard.Stats(),
		}
		if idx := s.holder.Load(); idx != nil {
			st.Plugins = idx.Len()
			st.Commands = idx.CommandCount()
		}
		st.Cache = s.cache.Stats(ctx)
		st.CacheEntries = st.Cache.Entries
		st.Health = s.health.CheckAll(ctx)
		return st, nil
	})
}

// ClearCache removes every cached artifact and returns how many were
// removed. It requires the admin role; a denied call clears nothing.
func (s *Service) ClearCache(ctx context.Context, caller *auth.Identity) (int, error) {
	return observe.Run(ctx, s.mw, s.op(ctx, "clear_cache"), func(ctx context.Context) (int, error) {
		if err := s.Authorize(ctx, caller, auth.ActionClearCache); err != nil {
			return 0, err
		}
		n, err := s.cache.Clear(ctx)
		if err != nil {
			return 0, fmt.Errorf("menu: clear cache: %w", err)
		}
		s.logger.Info(ctx, "render cache cleared",
			observe.F("removed", n),
			observe.F("principal", principal(caller)),
		)
		return n, nil
	})
}
