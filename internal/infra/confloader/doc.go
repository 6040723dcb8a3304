// Package confloader provides configuration loading mechanism.
//
// It wraps koanf to load a typed configuration from layered sources.
//
// Priority (highest to lowest):
//
//  1. Explicit overrides (WithOverrides, used for command-line flags)
//  2. Environment variables (RIFSREDIS_SECTION_KEY)
//  3. Configuration file (YAML)
//  4. Values already present in the target struct
//
// Watcher reports changes to the configuration file so callers can
// re-run Load and apply what may change at runtime.
package confloader
