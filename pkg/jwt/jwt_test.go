package jwt

import "testing"

func TestGenerateValidateRoundtrip(t *testing.T) {
	if err := Init("test-secret"); err != nil {
		t.Fatal(err)
	}

	token, err := Generate("acct-1", "a@b.com", "passenger")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	claims, err := Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.AccountID != "acct-1" || claims.Email != "a@b.com" || claims.Role != "passenger" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	if err := Init("test-secret"); err != nil {
		t.Fatal(err)
	}
	if _, err := Validate("not.a.token"); err == nil {
		t.Error("garbage token must not validate")
	}
}

func TestInitRequiresSecret(t *testing.T) {
	if err := Init(""); err == nil {
		t.Error("empty secret must be rejected")
	}
}
