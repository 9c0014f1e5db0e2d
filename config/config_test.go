package config

import "testing"

func TestDefault_MatchesSpecDefaults(t *testing.T) {
	cfg := Default()
	if cfg.P2P.Port != 5001 {
		t.Errorf("P2P.Port = %d, want 5001", cfg.P2P.Port)
	}
	if len(cfg.P2P.Peers) != 0 {
		t.Errorf("P2P.Peers = %v, want empty", cfg.P2P.Peers)
	}
	if !cfg.P2P.Enabled {
		t.Error("P2P.Enabled = false, want true")
	}
	if cfg.Mining.Reward != 50 {
		t.Errorf("Mining.Reward = %d, want 50", cfg.Mining.Reward)
	}
	if cfg.Ledger.InitialDifficulty != 4 {
		t.Errorf("Ledger.InitialDifficulty = %d, want 4", cfg.Ledger.InitialDifficulty)
	}
	if cfg.Ledger.MineRateMs != 1000 {
		t.Errorf("Ledger.MineRateMs = %d, want 1000", cfg.Ledger.MineRateMs)
	}
	if cfg.Ledger.StartingBalance != 1000 {
		t.Errorf("Ledger.StartingBalance = %d, want 1000", cfg.Ledger.StartingBalance)
	}
	if cfg.Storage.Enabled {
		t.Error("Storage.Enabled = true, want false by default")
	}
}

func TestLoad_OverridesFromEnv(t *testing.T) {
	t.Setenv("SOCKET_PORT", "6001")
	t.Setenv("PEER_NODES", "ws://localhost:6002/, ws://localhost:6003/")
	t.Setenv("MINING_REWARD", "75")
	t.Setenv("MINE_RATE", "2000")
	t.Setenv("MINING_DIFFICULTY", "6")
	t.Setenv("STARTING_BALANCE", "2500")
	t.Setenv("ENABLE_NETWORK", "false")

	cfg := Load()
	if cfg.P2P.Port != 6001 {
		t.Errorf("P2P.Port = %d, want 6001", cfg.P2P.Port)
	}
	if len(cfg.P2P.Peers) != 2 || cfg.P2P.Peers[0] != "ws://localhost:6002/" {
		t.Errorf("P2P.Peers = %v, want 2 trimmed entries", cfg.P2P.Peers)
	}
	if cfg.Mining.Reward != 75 {
		t.Errorf("Mining.Reward = %d, want 75", cfg.Mining.Reward)
	}
	if cfg.Ledger.MineRateMs != 2000 {
		t.Errorf("Ledger.MineRateMs = %d, want 2000", cfg.Ledger.MineRateMs)
	}
	if cfg.Ledger.InitialDifficulty != 6 {
		t.Errorf("Ledger.InitialDifficulty = %d, want 6", cfg.Ledger.InitialDifficulty)
	}
	if cfg.Ledger.StartingBalance != 2500 {
		t.Errorf("Ledger.StartingBalance = %d, want 2500", cfg.Ledger.StartingBalance)
	}
	if cfg.P2P.Enabled {
		t.Error("P2P.Enabled = true, want false after ENABLE_NETWORK=false")
	}
}

func TestLoad_IgnoresUnparsableValues(t *testing.T) {
	t.Setenv("SOCKET_PORT", "not-a-number")
	cfg := Load()
	if cfg.P2P.Port != 5001 {
		t.Errorf("P2P.Port = %d, want default 5001 when env value is unparsable", cfg.P2P.Port)
	}
}

func TestLoad_EmptyPeerNodesYieldsNilSlice(t *testing.T) {
	t.Setenv("PEER_NODES", "")
	cfg := Load()
	if len(cfg.P2P.Peers) != 0 {
		t.Errorf("P2P.Peers = %v, want empty", cfg.P2P.Peers)
	}
}
