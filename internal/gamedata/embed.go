// Package gamedata provides embedded game content and the leaf types shared by
// every layer of the engine: items, difficulty tiers, penalty severities and
// the localized text catalog.
package gamedata

import "embed"

// dataFS embeds the building graph and every locale catalog at build time.
//
//go:embed *.json locales/*/*.yaml
var dataFS embed.FS
