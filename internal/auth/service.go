package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vectorpad/vectorpad/internal/typeid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrInvalidRole  = errors.New("invalid role")
)

// Role is what a token allows on its session.
type Role string

const (
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

func (r Role) Valid() bool { return r == RoleEditor || r == RoleViewer }

// CanEdit reports whether the role may send drawing commands.
func (r Role) CanEdit() bool { return r == RoleEditor }

// Claims is the validated content of a token. SessionID is empty for guest
// tokens, which only identify a user.
type Claims struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId,omitempty"`
	Role      Role   `json:"role"`
}

type Service struct {
	jwtSecret []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewService(jwtSecret string) *Service {
	return &Service{
		jwtSecret: []byte(jwtSecret),
		ttl:       24 * time.Hour,
		now:       time.Now,
	}
}

// Guest creates a new anonymous user and a token for it.
func (s *Service) Guest() (*Claims, string, error) {
	claims := &Claims{UserID: typeid.NewUserID(), Role: RoleEditor}
	token, err := s.IssueToken(claims.UserID, "", claims.Role)
	if err != nil {
		return nil, "", err
	}
	return claims, token, nil
}

// IssueToken signs a token for userID on sessionID.
func (s *Service) IssueToken(userID, sessionID string, role Role) (string, error) {
	if !role.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	}
	if sessionID != "" {
		claims["sid"] = sessionID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	role := Role(fmt.Sprint(claims["role"]))
	if !role.Valid() {
		return nil, fmt.Errorf("%w: role %q", ErrInvalidToken, role)
	}
	sessionID, _ := claims["sid"].(string)

	return &Claims{UserID: userID, SessionID: sessionID, Role: role}, nil
}
