package jwt

import (
	"errors"
	"fmt"
	"time"

	"renew-admin/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken 对外统一的校验失败错误
var ErrInvalidToken = errors.New("invalid token")

var errEmptySecret = errors.New("signing secret is empty")

// Kind token校验失败的具体原因，仅供内部日志使用
type Kind int

const (
	KindUnknown Kind = iota
	KindMalformed
	KindExpired
	KindNotValidYet
	KindSignature
	KindUnverifiable
)

func (k Kind) String() string {
	switch k {
	case KindMalformed:
		return "malformed"
	case KindExpired:
		return "expired"
	case KindNotValidYet:
		return "not_valid_yet"
	case KindSignature:
		return "signature"
	case KindUnverifiable:
		return "unverifiable"
	default:
		return "unknown"
	}
}

// TokenError 校验失败错误
// Error() 始终返回 "invalid token"，具体原因通过 Kind 和 Unwrap 获取
type TokenError struct {
	Kind Kind
	Err  error
}

func (e *TokenError) Error() string {
	return ErrInvalidToken.Error()
}

func (e *TokenError) Unwrap() error {
	return e.Err
}

func (e *TokenError) Is(target error) bool {
	return target == ErrInvalidToken
}

// Detail 返回带原因的描述，用于服务端日志
func (e *TokenError) Detail() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// KindOf 提取校验失败原因，非 TokenError 返回 KindUnknown
func KindOf(err error) Kind {
	var te *TokenError
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindUnknown
}

func newTokenError(err error) *TokenError {
	kind := KindUnknown
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		kind = KindMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		kind = KindExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		kind = KindNotValidYet
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		kind = KindSignature
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		kind = KindUnverifiable
	}
	return &TokenError{Kind: kind, Err: err}
}

// Verifier HS256 token 校验器
type Verifier struct {
	signingKey []byte
	issuer     string
}

// NewVerifier 创建校验器
func NewVerifier(secret string) *Verifier {
	return &Verifier{signingKey: []byte(secret)}
}

// NewVerifierFromConfig 使用配置中的密钥和签发者创建校验器
func NewVerifierFromConfig(cfg config.JWTConfig) *Verifier {
	return &Verifier{
		signingKey: []byte(cfg.SigningKey),
		issuer:     cfg.Issuer,
	}
}

func (v *Verifier) keyFunc(token *jwt.Token) (interface{}, error) {
	if len(v.signingKey) == 0 {
		return nil, errEmptySecret
	}
	return v.signingKey, nil
}

// Verify 校验签名和有效期，成功返回解码后的 claims
func (v *Verifier) Verify(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, newTokenError(err)
	}
	if !token.Valid {
		return nil, &TokenError{Kind: KindUnknown, Err: errors.New("token marked invalid")}
	}

	return claims, nil
}

// GenerateToken 签发token，ttl 大于0时写入 iat/nbf/exp
func (v *Verifier) GenerateToken(claims jwt.MapClaims, ttl time.Duration) (string, error) {
	if len(v.signingKey) == 0 {
		return "", errEmptySecret
	}

	payload := jwt.MapClaims{}
	for k, val := range claims {
		payload[k] = val
	}

	now := time.Now()
	if ttl > 0 {
		payload["iat"] = now.Unix()
		payload["nbf"] = now.Unix()
		payload["exp"] = now.Add(ttl).Unix()
	}
	if _, ok := payload["iss"]; !ok && v.issuer != "" {
		payload["iss"] = v.issuer
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	signed, err := token.SignedString(v.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Detail 返回错误的内部描述，非 TokenError 时返回 err.Error()
func Detail(err error) string {
	var te *TokenError
	if errors.As(err, &te) {
		return te.Detail()
	}
	return err.Error()
}
