package stdactions

import "github.com/rowan-editor/rowan/internal/registry"

func init() {
	registry.RegisterOption(&registry.Option{
		ID: "option.tab_width", Name: "tab_width",
		ValueType: registry.OptInt, Default: 4, Scope: registry.ScopeBuffer,
		Description: "Display width of a tab character.",
	})
	registry.RegisterOption(&registry.Option{
		ID: "option.expand_tab", Name: "expand_tab",
		ValueType: registry.OptBool, Default: true, Scope: registry.ScopeBuffer,
		Description: "Insert spaces instead of a tab character.",
	})
	registry.RegisterOption(&registry.Option{
		ID: "option.scroll_offset", Name: "scroll_offset", Aliases: []string{"scrolloff"},
		ValueType: registry.OptInt, Default: 3, Scope: registry.ScopeGlobal,
		Description: "Minimum lines kept visible above and below the cursor.",
	})
	registry.RegisterOption(&registry.Option{
		ID: "option.auto_reload", Name: "auto_reload",
		ValueType: registry.OptBool, Default: true, Scope: registry.ScopeGlobal,
		Description: "Reload clean buffers when the file changes on disk.",
	})
	registry.RegisterOption(&registry.Option{
		ID: "option.completion_timeout_ms", Name: "completion_timeout_ms",
		ValueType: registry.OptInt, Default: 2000, Scope: registry.ScopeGlobal,
		Description: "How long a completion request may stay in flight before it expires.",
	})

	registry.RegisterNotificationType(&registry.NotificationType{
		ID: "notification.error", Name: "error", Priority: 100, DefaultTimeoutMS: 6000,
	})
	registry.RegisterNotificationType(&registry.NotificationType{
		ID: "notification.warn", Name: "warn", Priority: 50, DefaultTimeoutMS: 4000,
	})
	registry.RegisterNotificationType(&registry.NotificationType{
		ID: "notification.info", Name: "info", Priority: 10, DefaultTimeoutMS: 2500,
	})
}
