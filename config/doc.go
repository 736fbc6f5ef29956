// Package config loads picmenu settings with viper.
//
// Settings come from built-in defaults, an optional YAML or JSON file, and
// PICMENU_* environment variables, in increasing order of precedence. Keys
// are flat and match the plugin's configuration names (theme, image_width,
// fuzzy_search_threshold, admin_users, ...). Secret values such as
// jwt_secret may be written as secretref:env:NAME, secretref:file:NAME or
// ${NAME} and are resolved during Load.
package config
