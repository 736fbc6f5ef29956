package menu

import (
	"fmt"
	"strings"

	"github.com/memoriass/astrbot-plugin-picmenu/auth"
	"github.com/memoriass/astrbot-plugin-picmenu/index"
	"github.com/memoriass/astrbot-plugin-picmenu/render"
	"github.com/memoriass/astrbot-plugin-picmenu/resolve"
)

// Page titles and fixed texts.
const (
	mainTitle       = "📚 插件帮助菜单"
	pluginPrefix    = "🔧 "
	commandPrefix   = "⚡ "
	emptyPlugin     = "该插件暂无可用命令"
	noPlugins       = "暂无可用插件"
	mainHint        = "发送 /help <序号或插件名> 查看插件详情"
	pluginHintFmt   = "发送 /help %s <序号或命令名> 查看命令详情"
	nextPageHintFmt = "发送 /help -p %d 查看下一页"
)

// document builds the page for topic.
func (s *Service) document(idx *index.Index, topic *resolve.Topic, caller *auth.Identity, page int) (*render.Document, error) {
	switch topic.Depth {
	case resolve.DepthPlugin:
		return s.pluginDocument(idx, topic, caller, page)
	case resolve.DepthCommand:
		return s.commandDocument(idx, topic)
	default:
		return s.mainDocument(idx, caller, page)
	}
}

func (s *Service) mainDocument(idx *index.Index, caller *auth.Identity, page int) (*render.Document, error) {
	p, err := s.resolver.List(idx, resolve.Root(), caller, page, 0)
	if err != nil {
		return nil, err
	}
	vis := s.resolver.Options().Visibility

	doc := &render.Document{
		Kind:       render.KindMain,
		Title:      mainTitle,
		Subtitle:   fmt.Sprintf("共 %d 个插件", p.Total),
		Empty:      noPlugins,
		Page:       p.Number,
		TotalPages: p.TotalPages,
		Notes:      []string{mainHint},
	}
	for _, c := range p.Items {
		doc.Items = append(doc.Items, render.Item{
			Index:       c.Position,
			Name:        c.Entry.Name,
			Description: c.Entry.Description,
			Detail:      fmt.Sprintf("%d 个命令", len(vis.Commands(idx, c.Entry.ID, caller))),
		})
	}
	if p.HasNext() {
		doc.Notes = append(doc.Notes, fmt.Sprintf(nextPageHintFmt, p.Number+1))
	}
	return doc, nil
}

func (s *Service) pluginDocument(idx *index.Index, topic *resolve.Topic, caller *auth.Identity, page int) (*render.Document, error) {
	plugin := topic.Plugin
	p, err := s.resolver.List(idx, resolve.InPlugin(plugin.ID), caller, page, 0)
	if err != nil {
		return nil, err
	}
	meta, _ := idx.PluginMeta(plugin.ID)

	doc := &render.Document{
		Kind:        render.KindPlugin,
		Title:       pluginPrefix + plugin.Name,
		Subtitle:    meta.Subtitle(),
		Description: meta.Description,
		Plugin:      plugin.Name,
		Empty:       emptyPlugin,
		Page:        p.Number,
		TotalPages:  p.TotalPages,
	}
	for _, c := range p.Items {
		doc.Items = append(doc.Items, render.Item{
			Index:       c.Position,
			Name:        "/" + c.Entry.Name,
			Description: c.Entry.Description,
			Restricted:  c.Restricted,
		})
	}
	if len(doc.Items) > 0 {
		doc.Notes = append(doc.Notes, fmt.Sprintf(pluginHintFmt, plugin.Name))
	}
	if meta.Homepage != "" {
		doc.Notes = append(doc.Notes, meta.Homepage)
	}
	return doc, nil
}

func (s *Service) commandDocument(idx *index.Index, topic *resolve.Topic) (*render.Document, error) {
	plugin, command := topic.Plugin, topic.Command
	meta, ok := idx.CommandMeta(plugin.ID, command.ID)
	if !ok {
		return nil, &resolve.NotFoundError{Query: command.Name, Nav: resolve.InPlugin(plugin.ID)}
	}

	usage := meta.Usage
	if usage == "" {
		usage = strings.TrimSpace("/" + meta.Name + " " + strings.Join(meta.Parameters, " "))
	}
	aliases := make([]string, 0, len(meta.Aliases))
	for _, a := range meta.Aliases {
		aliases = append(aliases, "/"+a)
	}

	return &render.Document{
		Kind:        render.KindCommand,
		Title:       commandPrefix + command.Name,
		Subtitle:    plugin.Name,
		Description: meta.Description,
		Plugin:      plugin.Name,
		Command:     command.Name,
		Sections: []render.Section{
			{Heading: "用法", Lines: []string{usage}},
			{Heading: "别名", Lines: aliases},
			{Heading: "参数", Lines: meta.Parameters},
			{Heading: "示例", Lines: meta.Examples},
		},
		Restricted: topic.Restricted,
	}, nil
}
