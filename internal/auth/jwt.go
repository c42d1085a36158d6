package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rogerio-castellano/stocktrack/internal/models"
)

// Claims are the fields carried by a session token.
type Claims struct {
	SessionID string
	UserID    int
	Role      models.Role
	ExpiresAt time.Time
}

// Tokens signs and verifies session tokens with HMAC-SHA256.
type Tokens struct {
	secret []byte
}

func NewTokens(secret string) *Tokens {
	return &Tokens{secret: []byte(secret)}
}

func (t *Tokens) Issue(s models.Session, role models.Role) (string, error) {
	claims := jwt.MapClaims{
		"sid":  s.ID,
		"sub":  s.UserID,
		"role": string(role),
		"iat":  s.IssuedAt.Unix(),
		"exp":  s.ExpiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse checks the signature only. Expiry is decided by the stored session so that an
// expired session can be marked inactive.
func (t *Tokens) Parse(tokenStr string) (Claims, error) {
	token, err := jwt.Parse(tokenStr, func(tk *jwt.Token) (any, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tk.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidSession
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidSession
	}
	sid, _ := mc["sid"].(string)
	sub, _ := mc["sub"].(float64)
	role, _ := mc["role"].(string)
	exp, err := mc.GetExpirationTime()
	if sid == "" || sub == 0 || err != nil || exp == nil {
		return Claims{}, ErrInvalidSession
	}
	return Claims{SessionID: sid, UserID: int(sub), Role: models.Role(role), ExpiresAt: exp.Time}, nil
}
