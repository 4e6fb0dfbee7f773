package security

import (
	"strings"
	"testing"
	"time"

	"assetman/api/internal/models"
)

const testSecret = "unit-test-secret"

func testUser() models.User {
	return models.User{
		ID:    "usr_2p5fK",
		Name:  "Admin User",
		Email: "admin@example.com",
		Role:  models.UserRoleAdmin,
	}
}

func TestSessionToken_RoundTrip(t *testing.T) {
	user := testUser()

	token, err := IssueSessionToken(testSecret, "asset-manager", user, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := ParseSessionToken(token, testSecret)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if claims.UserID != user.ID {
		t.Errorf("userId = %q, want %q", claims.UserID, user.ID)
	}
	if claims.Email != user.Email {
		t.Errorf("email = %q, want %q", claims.Email, user.Email)
	}
	if claims.Name != user.Name {
		t.Errorf("name = %q, want %q", claims.Name, user.Name)
	}
	if claims.Role != string(user.Role) {
		t.Errorf("role = %q, want %q", claims.Role, user.Role)
	}
	if claims.Issuer != "asset-manager" {
		t.Errorf("issuer = %q, want asset-manager", claims.Issuer)
	}
	if claims.Subject != user.ID {
		t.Errorf("subject = %q, want %q", claims.Subject, user.ID)
	}

	wantExp := time.Now().Add(7 * 24 * time.Hour)
	if diff := claims.ExpiresAt.Time.Sub(wantExp); diff > time.Minute || diff < -time.Minute {
		t.Errorf("expiry off by %v", diff)
	}
}

func TestSessionToken_Expired(t *testing.T) {
	token, err := IssueSessionToken(testSecret, "asset-manager", testUser(), -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := ParseSessionToken(token, testSecret); err == nil {
		t.Fatalf("expired token verified")
	}
}

func TestSessionToken_WrongSecret(t *testing.T) {
	token, err := IssueSessionToken(testSecret, "asset-manager", testUser(), time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := ParseSessionToken(token, "other-secret"); err == nil {
		t.Fatalf("token verified with wrong secret")
	}
}

func TestSessionToken_Tampered(t *testing.T) {
	token, err := IssueSessionToken(testSecret, "asset-manager", testUser(), time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Flip one byte at a time across the whole token; none may verify.
	for i := 0; i < len(token); i++ {
		raw := []byte(token)
		raw[i] ^= 0x01
		tampered := string(raw)
		if tampered == token {
			continue
		}
		if _, err := ParseSessionToken(tampered, testSecret); err == nil {
			t.Fatalf("tampered token verified (byte %d)", i)
		}
	}
}

func TestSessionToken_RejectsNoneAlgorithm(t *testing.T) {
	token, err := IssueSessionToken(testSecret, "asset-manager", testUser(), time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Swap the header for {"alg":"none","typ":"JWT"} and strip the signature.
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape")
	}
	forged := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0" + "." + parts[1] + "."
	if _, err := ParseSessionToken(forged, testSecret); err == nil {
		t.Fatalf("alg=none token verified")
	}
}

func TestSessionToken_Malformed(t *testing.T) {
	for _, tok := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		if _, err := ParseSessionToken(tok, testSecret); err == nil {
			t.Fatalf("malformed token %q verified", tok)
		}
	}
}
