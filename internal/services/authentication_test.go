package services

import "testing"

func TestAuthenticationRoundTrip(t *testing.T) {
	authentication, err := NewAuthentication("test-secret")
	if err != nil {
		t.Fatal(err)
	}

	token, err := authentication.CreateToken("user-1")
	if err != nil {
		t.Fatal(err)
	}

	userID, err := authentication.Validate(token)
	if err != nil {
		t.Fatal(err)
	}
	if userID != "user-1" {
		t.Errorf("userID = %q, want %q", userID, "user-1")
	}
}

func TestAuthenticationRejectsBadTokens(t *testing.T) {
	authentication, err := NewAuthentication("test-secret")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := authentication.Validate("not-a-token"); err == nil {
		t.Error("malformed token accepted")
	}

	other, err := NewAuthentication("other-secret")
	if err != nil {
		t.Fatal(err)
	}
	token, err := other.CreateToken("user-1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := authentication.Validate(token); err == nil {
		t.Error("token signed with another secret accepted")
	}
}

func TestAuthenticationRequiresSecret(t *testing.T) {
	if _, err := NewAuthentication(""); err == nil {
		t.Error("empty secret accepted")
	}
}
