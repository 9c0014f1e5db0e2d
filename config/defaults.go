package config

// Default returns the hard-coded defaults spec.md §6 lists for every
// environment variable this node reads.
func Default() *Config {
	return &Config{
		P2P: P2PConfig{
			Port:    5001,
			Peers:   nil,
			Enabled: true,
		},
		Mining: MiningConfig{
			Reward: 50,
		},
		Ledger: LedgerConfig{
			InitialDifficulty: 4,
			MineRateMs:        1000,
			StartingBalance:   1000,
		},
		Storage: StorageConfig{
			Enabled: false,
			DataDir: "",
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}
