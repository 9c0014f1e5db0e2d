// Package config handles application configuration.
//
// Every setting is sourced from an environment variable with a hard
// default — no flags, no config files. This node has no separate
// protocol-genesis layer: the settings below (difficulty, reward, mine
// rate, starting balance) are themselves the only "genesis" a fresh
// chain needs.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds everything a running node needs, grouped the way the
// spec groups its own env vars (networking, mining, ledger, storage,
// logging) rather than as one flat struct.
type Config struct {
	P2P     P2PConfig
	Mining  MiningConfig
	Ledger  LedgerConfig
	Storage StorageConfig
	Log     LogConfig
}

// P2PConfig holds gossip networking settings.
type P2PConfig struct {
	Port    int      `conf:"SOCKET_PORT"`
	Peers   []string `conf:"PEER_NODES"`
	Enabled bool     `conf:"ENABLE_NETWORK"`
}

// MiningConfig holds block-production settings.
type MiningConfig struct {
	Reward uint64 `conf:"MINING_REWARD"`
}

// LedgerConfig holds the settings that seed a fresh chain and fresh
// wallets: the genesis difficulty, the target inter-block time, and the
// implicit starting balance unseen addresses are assumed to hold.
type LedgerConfig struct {
	InitialDifficulty uint32 `conf:"MINING_DIFFICULTY"`
	MineRateMs        int64  `conf:"MINE_RATE"`
	StartingBalance   uint64 `conf:"STARTING_BALANCE"`
}

// StorageConfig controls the optional on-disk persistence layer.
// spec.md §6 states persistence is never required; ENABLE_PERSISTENCE
// and DATA_DIR only opt a node into surviving restarts without a
// fresh peer sync.
type StorageConfig struct {
	Enabled bool   `conf:"ENABLE_PERSISTENCE"`
	DataDir string `conf:"DATA_DIR"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"LOG_LEVEL"`
	JSON  bool   `conf:"LOG_JSON"`
}

// Load reads the full configuration from the process environment,
// falling back to Default() for anything unset or unparsable.
func Load() *Config {
	cfg := Default()

	if v, ok := lookupInt("SOCKET_PORT"); ok {
		cfg.P2P.Port = v
	}
	if v, ok := os.LookupEnv("PEER_NODES"); ok {
		cfg.P2P.Peers = splitCSV(v)
	}
	if v, ok := lookupBool("ENABLE_NETWORK"); ok {
		cfg.P2P.Enabled = v
	}

	if v, ok := lookupUint64("MINING_REWARD"); ok {
		cfg.Mining.Reward = v
	}

	if v, ok := lookupInt("MINING_DIFFICULTY"); ok {
		cfg.Ledger.InitialDifficulty = uint32(v)
	}
	if v, ok := lookupInt64("MINE_RATE"); ok {
		cfg.Ledger.MineRateMs = v
	}
	if v, ok := lookupUint64("STARTING_BALANCE"); ok {
		cfg.Ledger.StartingBalance = v
	}

	if v, ok := lookupBool("ENABLE_PERSISTENCE"); ok {
		cfg.Storage.Enabled = v
	}
	if v, ok := os.LookupEnv("DATA_DIR"); ok {
		cfg.Storage.DataDir = v
	}

	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	if v, ok := lookupBool("LOG_JSON"); ok {
		cfg.Log.JSON = v
	}

	return cfg
}

func splitCSV(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func lookupInt(key string) (int, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}

func lookupInt64(key string) (int64, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func lookupUint64(key string) (uint64, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func lookupBool(key string) (bool, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return false, false
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, false
	}
	return b, true
}
