package profile

import "embed"

// builtinProfilesFS embeds the built-in language profiles.
//
//go:embed profiles/*.yml
var builtinProfilesFS embed.FS
