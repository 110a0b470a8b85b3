// Package config provides configuration management for the gregodump CLI.
package config

// Config holds all CLI configuration options.
type Config struct {
	Input     string   `koanf:"input"`
	OutDir    string   `koanf:"out_dir"`
	Tables    []string `koanf:"tables"`
	Unified   string   `koanf:"unified"`
	Gzip      bool     `koanf:"gzip"`
	RemoveRaw bool     `koanf:"remove_raw"`
	Verbose   bool     `koanf:"verbose"`
}

// Default configuration values. The defaults mirror the GregoBase export
// layout: the dump lands in raw/, per-table CSVs in extract/csv/, and the
// unified stream next to them.
const (
	DefaultInput   = "raw/gregobase_online.sql"
	DefaultOutDir  = "extract/csv"
	DefaultUnified = "extract/chants.jsonl"
)

// DefaultTables returns the tables extracted when none are requested
// explicitly: the chants, their sources, and the link table joining them.
func DefaultTables() []string {
	return []string{
		"gregobase_chants",
		"gregobase_sources",
		"gregobase_chant_sources",
	}
}
