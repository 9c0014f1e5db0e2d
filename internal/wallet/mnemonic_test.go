package wallet

import "testing"

func TestGenerateMnemonic_ProducesValidPhrase(t *testing.T) {
	m, err := GenerateMnemonic()
	if err != nil {
		t.Fatalf("GenerateMnemonic: %v", err)
	}
	if !ValidateMnemonic(m) {
		t.Fatalf("expected generated mnemonic to validate: %q", m)
	}
}

func TestValidateMnemonic_RejectsGarbage(t *testing.T) {
	if ValidateMnemonic("not a real mnemonic phrase at all") {
		t.Fatalf("expected garbage phrase to fail validation")
	}
}

func TestSeedFromMnemonic_IsDeterministic(t *testing.T) {
	m, err := GenerateMnemonic()
	if err != nil {
		t.Fatalf("GenerateMnemonic: %v", err)
	}
	s1, err := SeedFromMnemonic(m, "")
	if err != nil {
		t.Fatalf("SeedFromMnemonic: %v", err)
	}
	s2, err := SeedFromMnemonic(m, "")
	if err != nil {
		t.Fatalf("SeedFromMnemonic: %v", err)
	}
	if len(s1) != SeedSize {
		t.Fatalf("expected %d-byte seed, got %d", SeedSize, len(s1))
	}
	if string(s1) != string(s2) {
		t.Fatalf("expected deterministic seed for the same mnemonic+passphrase")
	}
}
