package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"

	"renew-admin/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key-for-unit-tests"

func TestVerify(t *testing.T) {
	t.Parallel()

	v := NewVerifier(testSecret)

	t.Run("有效token返回原始载荷", func(t *testing.T) {
		t.Parallel()

		token, err := v.GenerateToken(jwt.MapClaims{"sub": "user-1", "role": "admin"}, time.Hour)
		if err != nil {
			t.Fatalf("GenerateToken() error = %v", err)
		}

		claims, err := v.Verify(token)
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if claims["sub"] != "user-1" {
			t.Errorf("sub = %v, want %q", claims["sub"], "user-1")
		}
		if claims["role"] != "admin" {
			t.Errorf("role = %v, want %q", claims["role"], "admin")
		}
	})

	t.Run("不带有效期的token也可通过", func(t *testing.T) {
		t.Parallel()

		token, err := v.GenerateToken(jwt.MapClaims{"sub": "forever"}, 0)
		if err != nil {
			t.Fatalf("GenerateToken() error = %v", err)
		}
		if _, err := v.Verify(token); err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
	})

	t.Run("配置中的签发者写入iss", func(t *testing.T) {
		t.Parallel()

		cv := NewVerifierFromConfig(config.JWTConfig{SigningKey: testSecret, Issuer: "renew-admin"})
		token, err := cv.GenerateToken(jwt.MapClaims{"sub": "x"}, time.Minute)
		if err != nil {
			t.Fatalf("GenerateToken() error = %v", err)
		}
		claims, err := cv.Verify(token)
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if claims["iss"] != "renew-admin" {
			t.Errorf("iss = %v, want %q", claims["iss"], "renew-admin")
		}
	})
}

func TestVerifyFailures(t *testing.T) {
	t.Parallel()

	v := NewVerifier(testSecret)

	wrongSecret, err := NewVerifier("another-secret").GenerateToken(jwt.MapClaims{"sub": "u"}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	expired, err := v.GenerateToken(jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Hour).Unix()}, 0)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	notYet, err := v.GenerateToken(jwt.MapClaims{"sub": "u", "nbf": time.Now().Add(time.Hour).Unix()}, 0)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
		kind  Kind
	}{
		{name: "签名密钥不同", token: wrongSecret, kind: KindSignature},
		{name: "已过期", token: expired, kind: KindExpired},
		{name: "尚未生效", token: notYet, kind: KindNotValidYet},
		{name: "格式错误", token: "not.a.jwt", kind: KindMalformed},
		{name: "空字符串", token: "", kind: KindMalformed},
		{name: "不允许的签名算法", token: noneAlg, kind: KindSignature},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			claims, err := v.Verify(tt.token)
			if err == nil {
				t.Fatalf("Verify() = %v, want error", claims)
			}
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("errors.Is(err, ErrInvalidToken) = false, err = %v", err)
			}
			if err.Error() != "invalid token" {
				t.Errorf("Error() = %q, want %q", err.Error(), "invalid token")
			}
			if got := KindOf(err); got != tt.kind {
				t.Errorf("KindOf() = %v, want %v (detail: %s)", got, tt.kind, Detail(err))
			}
			if !strings.HasPrefix(Detail(err), tt.kind.String()) {
				t.Errorf("Detail() = %q, want prefix %q", Detail(err), tt.kind.String())
			}
		})
	}
}

func TestVerifyKeepsCause(t *testing.T) {
	t.Parallel()

	v := NewVerifier(testSecret)
	token, err := v.GenerateToken(jwt.MapClaims{"exp": time.Now().Add(-time.Minute).Unix()}, 0)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	_, err = v.Verify(token)
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("errors.Is(err, jwt.ErrTokenExpired) = false, err detail = %s", Detail(err))
	}
}

func TestEmptySecret(t *testing.T) {
	t.Parallel()

	v := NewVerifier("")
	if _, err := v.GenerateToken(jwt.MapClaims{"sub": "u"}, time.Hour); err == nil {
		t.Error("GenerateToken() with empty secret should fail")
	}

	token, err := NewVerifier(testSecret).GenerateToken(jwt.MapClaims{"sub": "u"}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	_, err = v.Verify(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify() error = %v, want ErrInvalidToken", err)
	}
	if KindOf(err) != KindUnverifiable {
		t.Errorf("KindOf() = %v, want %v", KindOf(err), KindUnverifiable)
	}
}

func TestKindOfForeignError(t *testing.T) {
	t.Parallel()

	if got := KindOf(errors.New("boom")); got != KindUnknown {
		t.Errorf("KindOf() = %v, want %v", got, KindUnknown)
	}
	if got := Detail(errors.New("boom")); got != "boom" {
		t.Errorf("Detail() = %q, want %q", got, "boom")
	}
}
