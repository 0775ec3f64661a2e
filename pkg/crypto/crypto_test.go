package crypto

import "testing"

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !CheckPassword("hunter22", hash) {
		t.Error("CheckPassword() rejected the right password")
	}
	if CheckPassword("hunter23", hash) {
		t.Error("CheckPassword() accepted the wrong password")
	}
	if CheckPassword("hunter22", "") {
		t.Error("CheckPassword() accepted an empty hash")
	}
}

func TestGenerateResetToken(t *testing.T) {
	a, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("GenerateResetToken() error = %v", err)
	}
	b, _ := GenerateResetToken()
	if len(a) != 43 {
		t.Errorf("len = %d, want 43", len(a))
	}
	if a == b {
		t.Error("two tokens are equal")
	}
}
