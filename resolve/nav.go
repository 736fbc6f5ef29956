package resolve

// Depth is a navigation level.
type Depth int

const (
	DepthRoot Depth = iota
	DepthPlugin
	DepthCommand
)

// String returns "root", "plugin" or "command".
func (d Depth) String() string {
	switch d {
	case DepthPlugin:
		return "plugin"
	case DepthCommand:
		return "command"
	default:
		return "root"
	}
}

// Nav is the navigation context that scopes a query. At DepthRoot the
// eligible entries are the visible plugins; at DepthPlugin they are the
// visible commands of PluginID; at DepthCommand they are the sibling
// commands of CommandID within PluginID.
type Nav struct {
	Depth     Depth
	PluginID  string
	CommandID string
}

// Root returns the root navigation context.
func Root() Nav {
	return Nav{Depth: DepthRoot}
}

// InPlugin returns the context inside pluginID.
func InPlugin(pluginID string) Nav {
	return Nav{Depth: DepthPlugin, PluginID: pluginID}
}

// InCommand returns the context inside a command detail view.
func InCommand(pluginID, commandID string) Nav {
	return Nav{Depth: DepthCommand, PluginID: pluginID, CommandID: commandID}
}

// String returns a stable description such as "plugin:基础功能".
func (n Nav) String() string {
	switch n.Depth {
	case DepthPlugin:
		return "plugin:" + n.PluginID
	case DepthCommand:
		return "command:" + n.PluginID + "/" + n.CommandID
	default:
		return "root"
	}
}
