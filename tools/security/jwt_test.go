package security

import (
	"errors"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/tuta081098/chat-moji/tools/errs"
)

var testSecret = []byte("unit-test-secret")

func TestGenerateAndVerify(t *testing.T) {
	opts := DefaultOptions(testSecret)
	pair, err := GeneratePair(opts, "u1")
	if err != nil {
		t.Fatalf("GeneratePair: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("empty token in pair")
	}
	if !pair.ExpireAt.After(time.Now()) {
		t.Fatalf("ExpireAt = %v, want future", pair.ExpireAt)
	}

	for _, token := range []string{pair.AccessToken, pair.RefreshToken} {
		sub, err := Verify(opts, token)
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if sub != "u1" {
			t.Fatalf("sub = %q, want u1", sub)
		}
	}
}

func TestVerifyExpired(t *testing.T) {
	// AccessTTL<=0 会被 GeneratePair 回填默认值，过期 token 直接手签
	now := time.Now().Add(-time.Hour)
	expired, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"sub": "u1",
		"iat": now.Unix(),
		"exp": now.Add(time.Minute).Unix(),
	}).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign expired: %v", err)
	}
	if _, err := Verify(DefaultOptions(testSecret), expired); !errors.Is(err, errs.ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	pair, err := GeneratePair(DefaultOptions(testSecret), "u1")
	if err != nil {
		t.Fatalf("GeneratePair: %v", err)
	}
	if _, err := Verify(DefaultOptions([]byte("other")), pair.AccessToken); !errors.Is(err, errs.ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	if _, err := Verify(DefaultOptions(testSecret), "not.a.token"); !errors.Is(err, errs.ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestUnsupportedAlg(t *testing.T) {
	opts := DefaultOptions(testSecret)
	opts.Alg = "RS256"
	if _, err := GeneratePair(opts, "u1"); err == nil {
		t.Fatal("want error for non-HMAC alg")
	}
}
