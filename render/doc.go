// Package render turns menu documents into artifacts.
//
// A Document is the format-independent description of one menu page: the
// main plugin listing, a plugin's command listing, or a single command. A
// Renderer serializes it as Markdown, as a themed HTML page (goldmark for
// free-text fields), or as ANSI terminal output (glamour). Renderers are
// stateless and safe for concurrent use.
package render
