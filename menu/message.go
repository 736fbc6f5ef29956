package menu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/memoriass/astrbot-plugin-picmenu/auth"
	"github.com/memoriass/astrbot-plugin-picmenu/resilience"
	"github.com/memoriass/astrbot-plugin-picmenu/resolve"
)

// User-facing messages.
const (
	MsgPermissionDenied = "❌ 权限不足，仅管理员可执行此操作"
	MsgRenderFailed     = "❌ 生成帮助信息时出现错误"
	MsgRateLimited      = "❌ 请求过于频繁，请稍后再试"
	MsgStatusFailed     = "❌ 查询状态失败"
)

// Message returns the text shown to a user for err. It returns "" for nil.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var (
		nf  *resolve.NotFoundError
		amb *resolve.AmbiguityError
	)
	switch {
	case errors.As(err, &amb):
		return ambiguityMessage(amb)
	case errors.As(err, &nf):
		return notFoundMessage(nf)
	case errors.Is(err, auth.ErrForbidden):
		return MsgPermissionDenied
	case errors.Is(err, resilience.ErrRateLimited):
		return MsgRateLimited
	default:
		return MsgRenderFailed
	}
}

// ClearedMessage confirms a cache clear.
func ClearedMessage(n int) string {
	return fmt.Sprintf("✅ 已清理 %d 个缓存图片", n)
}

func notFoundMessage(e *resolve.NotFoundError) string {
	switch {
	case e.Page > 0:
		return fmt.Sprintf("❌ 页码超出范围: 第 %d 页", e.Page)
	case e.Nav.Depth == resolve.DepthRoot:
		return fmt.Sprintf("❌ 未找到插件: %s", e.Query)
	default:
		return fmt.Sprintf("❌ 在插件 %s 中未找到命令: %s", e.Nav.PluginID, e.Query)
	}
}

func ambiguityMessage(e *resolve.AmbiguityError) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔍 找到多个与 %q 匹配的结果:\n", e.Query)
	for _, c := range e.Candidates {
		fmt.Fprintf(&b, "%d. %s", c.Position, c.Entry.Name)
		if c.Restricted {
			b.WriteString(" (管理员)")
		}
		b.WriteString("\n")
	}
	b.WriteString("请输入序号或更完整的名称")
	return b.String()
}
