package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"techsphere/cmd/internal/logger"
	"techsphere/config"
	"techsphere/models"
)

// DemoUser is seeded into every LocalProvider; it owns the demo blog.
var DemoUser = models.User{
	UID:         "demo-user",
	Email:       "demo@techsphere.com",
	DisplayName: "Demo User",
}

// LocalProvider 는 HS256 단일 시크릿으로 JWT 를 발급/검증하고
// 사용자 정보를 메모리에 보관한다. 데모 모드와 테스트에서 사용한다.
type LocalProvider struct {
	secret []byte
	issuer string
	ttl    time.Duration

	mu    sync.RWMutex
	users map[string]models.User
}

var _ Provider = (*LocalProvider)(nil)

// NewLocalProvider 는 JWTSecret 이 비어 있으면 프로세스 단위 임의 시크릿을 만든다.
// 이 경우 재시작하면 이전 토큰은 모두 무효가 된다.
func NewLocalProvider(cfg config.AuthConfig) (*LocalProvider, error) {
	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		var b [32]byte
		if _, err := rand.Read(b[:]); err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		secret = []byte(hex.EncodeToString(b[:]))
		logger.Log.Warn("JWT_SECRET is not set; using an ephemeral secret")
	}

	issuer := cfg.JWTIssuer
	if issuer == "" {
		issuer = "techsphere"
	}

	demo := DemoUser
	demo.CreatedAt = time.Now().UTC()

	return &LocalProvider{
		secret: secret,
		issuer: issuer,
		ttl:    24 * time.Hour,
		users:  map[string]models.User{demo.UID: demo},
	}, nil
}

// Sign issues a token for u and registers u in the directory.
func (p *LocalProvider) Sign(u models.User) (string, error) {
	p.mu.Lock()
	if _, ok := p.users[u.UID]; !ok {
		if u.CreatedAt.IsZero() {
			u.CreatedAt = time.Now().UTC()
		}
		p.users[u.UID] = u
	}
	p.mu.Unlock()

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   u.UID,
		"email": u.Email,
		"name":  u.DisplayName,
		"iss":   p.issuer,
		"iat":   now.Unix(),
		"exp":   now.Add(p.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

func (p *LocalProvider) VerifyToken(_ context.Context, tokenString string) (*Identity, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithIssuer(p.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", ErrInvalidToken)
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("%w: token missing sub claim", ErrInvalidToken)
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	return &Identity{UID: sub, Email: email, DisplayName: name}, nil
}

func (p *LocalProvider) GetUser(_ context.Context, uid string) (*models.User, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	u, ok := p.users[uid]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (p *LocalProvider) UpdateUser(_ context.Context, uid string, upd UserUpdate) (*models.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	u, ok := p.users[uid]
	if !ok {
		return nil, ErrUserNotFound
	}
	if upd.DisplayName != "" {
		u.DisplayName = upd.DisplayName
	}
	if upd.PhotoURL != "" {
		u.PhotoURL = upd.PhotoURL
	}
	p.users[uid] = u
	return &u, nil
}
