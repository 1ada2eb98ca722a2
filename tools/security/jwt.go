package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/tuta081098/chat-moji/tools/errs"
)

// Options 控制签名与TTL等参数。
type Options struct {
	Secret     []byte        // HMAC 密钥（生产用ENV/KMS）
	Alg        string        // HS256/HS384/HS512（默认 HS256）
	AccessTTL  time.Duration // access token 有效期（默认 2h）
	RefreshTTL time.Duration // refresh token 有效期（默认 7d）
}

func DefaultOptions(secret []byte) Options {
	return Options{Secret: secret, Alg: "HS256", AccessTTL: 2 * time.Hour, RefreshTTL: 7 * 24 * time.Hour}
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpireAt     time.Time `json:"expire_at"`
}

// GeneratePair 为 userID 签发 access + refresh 令牌。
func GeneratePair(opts Options, userID string) (*TokenPair, error) {
	method, err := signingMethod(opts.Alg)
	if err != nil {
		return nil, err
	}
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = 2 * time.Hour
	}
	if opts.RefreshTTL <= 0 {
		opts.RefreshTTL = 7 * 24 * time.Hour
	}
	now := time.Now()
	accessExp := now.Add(opts.AccessTTL)

	access, err := sign(method, opts.Secret, jwtlib.MapClaims{
		"sub": userID,
		"typ": "access",
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": accessExp.Unix(),
	})
	if err != nil {
		return nil, err
	}
	refresh, err := sign(method, opts.Secret, jwtlib.MapClaims{
		"sub": userID,
		"typ": "refresh",
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": now.Add(opts.RefreshTTL).Unix(),
	})
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, ExpireAt: accessExp}, nil
}

// Verify 校验令牌并返回 subject（userID）。
func Verify(opts Options, token string) (string, error) {
	parsed, err := jwtlib.Parse(token, func(t *jwtlib.Token) (interface{}, error) {
		// 仅允许 HMAC 家族
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected alg: %v", t.Header["alg"])
		}
		return opts.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return "", errs.ErrTokenExpired.WrapMsg(err.Error())
		}
		return "", errs.ErrTokenInvalid.WrapMsg(err.Error())
	}
	if !parsed.Valid {
		return "", errs.ErrTokenInvalid.Wrap()
	}
	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return "", errs.ErrTokenInvalid.WrapMsg("claims type mismatch")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errs.ErrTokenInvalid.WrapMsg("missing sub")
	}
	return sub, nil
}

func sign(method jwtlib.SigningMethod, secret []byte, claims jwtlib.MapClaims) (string, error) {
	return jwtlib.NewWithClaims(method, claims).SignedString(secret)
}

func signingMethod(alg string) (jwtlib.SigningMethod, error) {
	switch strings.ToUpper(strings.TrimSpace(alg)) {
	case "", "HS256":
		return jwtlib.SigningMethodHS256, nil
	case "HS384":
		return jwtlib.SigningMethodHS384, nil
	case "HS512":
		return jwtlib.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("unsupported alg: %s (use HS256/HS384/HS512)", alg)
	}
}
