package wallet

import "testing"

func TestNewMasterKey_RejectsWrongSeedSize(t *testing.T) {
	if _, err := NewMasterKey([]byte("too short")); err == nil {
		t.Fatalf("expected error for undersized seed")
	}
}

func TestDeriveAccount_IsDeterministic(t *testing.T) {
	mnemonic, err := GenerateMnemonic()
	if err != nil {
		t.Fatalf("GenerateMnemonic: %v", err)
	}
	seed, err := SeedFromMnemonic(mnemonic, "")
	if err != nil {
		t.Fatalf("SeedFromMnemonic: %v", err)
	}

	master1, err := NewMasterKey(seed)
	if err != nil {
		t.Fatalf("NewMasterKey: %v", err)
	}
	master2, err := NewMasterKey(seed)
	if err != nil {
		t.Fatalf("NewMasterKey: %v", err)
	}

	k1, err := master1.DeriveAccount(0, ChangeExternal, 0)
	if err != nil {
		t.Fatalf("DeriveAccount: %v", err)
	}
	k2, err := master2.DeriveAccount(0, ChangeExternal, 0)
	if err != nil {
		t.Fatalf("DeriveAccount: %v", err)
	}

	kp1, err := k1.KeyPair()
	if err != nil {
		t.Fatalf("KeyPair: %v", err)
	}
	kp2, err := k2.KeyPair()
	if err != nil {
		t.Fatalf("KeyPair: %v", err)
	}

	if kp1.Address != kp2.Address {
		t.Fatalf("expected the same seed to derive the same address twice")
	}
}

func TestDeriveAccount_DifferentIndicesYieldDifferentAddresses(t *testing.T) {
	mnemonic, err := GenerateMnemonic()
	if err != nil {
		t.Fatalf("GenerateMnemonic: %v", err)
	}
	seed, err := SeedFromMnemonic(mnemonic, "")
	if err != nil {
		t.Fatalf("SeedFromMnemonic: %v", err)
	}
	master, err := NewMasterKey(seed)
	if err != nil {
		t.Fatalf("NewMasterKey: %v", err)
	}

	k0, _ := master.DeriveAccount(0, ChangeExternal, 0)
	k1, _ := master.DeriveAccount(0, ChangeExternal, 1)

	kp0, err := k0.KeyPair()
	if err != nil {
		t.Fatalf("KeyPair: %v", err)
	}
	kp1, err := k1.KeyPair()
	if err != nil {
		t.Fatalf("KeyPair: %v", err)
	}
	if kp0.Address == kp1.Address {
		t.Fatalf("expected different derivation indices to yield different addresses")
	}
}
