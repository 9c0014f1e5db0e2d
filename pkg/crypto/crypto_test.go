package crypto

import "testing"

func TestGenerateKeyPairIsDeterministicallyDerived(t *testing.T) {
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	if kp.Address == "" {
		t.Fatalf("expected non-empty address")
	}
	if kp.PublicKey == "" {
		t.Fatalf("expected non-empty PEM public key")
	}

	pubBytes, err := DecodePublicKeyPEM(kp.PublicKey)
	if err != nil {
		t.Fatalf("DecodePublicKeyPEM: %v", err)
	}
	addr, err := DeriveAddress(pubBytes)
	if err != nil {
		t.Fatalf("DeriveAddress: %v", err)
	}
	if addr != kp.Address {
		t.Fatalf("address mismatch: keypair=%s rederived=%s", kp.Address, addr)
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	outputMap := map[Address]uint64{
		kp.Address:    950,
		"recipient-b": 50,
	}

	sig, err := Sign(kp.PrivateKey, outputMap)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if !Verify(kp.PublicKey, outputMap, sig) {
		t.Fatalf("expected signature to verify")
	}
}

func TestVerifyRejectsTamperedData(t *testing.T) {
	kp, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	outputMap := map[Address]uint64{kp.Address: 950, "recipient-b": 50}
	sig, err := Sign(kp.PrivateKey, outputMap)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	tampered := map[Address]uint64{kp.Address: 999999, "recipient-b": 50}
	if Verify(kp.PublicKey, tampered, sig) {
		t.Fatalf("expected tampered data to fail verification")
	}
}

func TestVerifyIsTotalOnMalformedInput(t *testing.T) {
	if Verify("not a pem block", map[string]int{"a": 1}, "deadbeef") {
		t.Fatalf("expected false for malformed PEM key")
	}
	kp, _ := GenerateKeyPair()
	if Verify(kp.PublicKey, map[string]int{"a": 1}, "not-hex!!") {
		t.Fatalf("expected false for malformed signature hex")
	}
}

func TestCanonicalSortsMapKeys(t *testing.T) {
	m := map[Address]uint64{"z-addr": 1, "a-addr": 2, "m-addr": 3}
	b, err := Canonical(m)
	if err != nil {
		t.Fatalf("Canonical: %v", err)
	}
	want := `{"a-addr":2,"m-addr":3,"z-addr":1}`
	if string(b) != want {
		t.Fatalf("canonical form = %s, want %s", b, want)
	}
}
