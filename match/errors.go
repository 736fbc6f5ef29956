package match

import "errors"

// ErrUnknownLocale is returned by New for a locale without a phonetic scheme.
var ErrUnknownLocale = errors.New("match: unknown phonetic locale")
