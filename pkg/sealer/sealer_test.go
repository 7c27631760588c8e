package sealer

import "testing"

func TestSealParseRoundTrip(t *testing.T) {
	token, err := SealCheckoutToken("665f1c2ab3d4e5f6a7b8c9d0", "user-42")
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	sessionID, userID, err := ParseCheckoutToken(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if sessionID != "665f1c2ab3d4e5f6a7b8c9d0" {
		t.Errorf("expected session id round trip, got %q", sessionID)
	}
	if userID != "user-42" {
		t.Errorf("expected user id round trip, got %q", userID)
	}
}

func TestSealProducesUniqueTokens(t *testing.T) {
	a, err := SealCheckoutToken("s", "u")
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	b, err := SealCheckoutToken("s", "u")
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	if a == b {
		t.Error("expected random nonce to produce distinct tokens")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, _, err := ParseCheckoutToken("not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}
	if _, _, err := ParseCheckoutToken(""); err == nil {
		t.Error("expected error for empty token")
	}
}

func TestParseRejectsTamperedToken(t *testing.T) {
	token, err := SealCheckoutToken("session", "user")
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}

	tampered := []byte(token)
	tampered[len(tampered)-1] ^= 0x01
	if _, _, err := ParseCheckoutToken(string(tampered)); err == nil {
		t.Error("expected error for tampered ciphertext")
	}
}
