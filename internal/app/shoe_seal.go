package app

import (
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"

	"blackjack/internal/domain"
)

// ShoeSealService signs shoe commitments so a table can publish the card
// order's hash before play and prove it afterwards.
type ShoeSealService struct {
	secret string
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// SealClaims is what a verified seal asserts.
type SealClaims struct {
	ShoeID     string
	Commitment string
	Decks      int
	CutIndex   int
	IssuedAt   time.Time
}

const defaultSealTTL = 24 * time.Hour

func NewShoeSealService(secret, issuer string) *ShoeSealService {
	return &ShoeSealService{
		secret: secret,
		issuer: issuer,
		ttl:    defaultSealTTL,
		now:    time.Now,
	}
}

// Seal signs the shoe's commitment under salt as an HS256 token.
func (s *ShoeSealService) Seal(shoe *domain.Shoe, salt string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("shoe seal service is nil")
	}
	if s.secret == "" {
		return "", fmt.Errorf("shoe seal secret is required")
	}
	if shoe == nil {
		return "", fmt.Errorf("shoe is required")
	}

	now := s.now()
	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": shoe.ID,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
		"cmt": shoe.Commitment(salt),
		"dks": shoe.Decks(),
		"cut": shoe.CutIndex(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Verify checks the signature and expiry of a seal and returns its claims.
func (s *ShoeSealService) Verify(tokenString string) (SealClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return SealClaims{}, fmt.Errorf("verify seal: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return SealClaims{}, fmt.Errorf("verify seal: invalid token")
	}
	if iss, _ := claims["iss"].(string); iss != s.issuer {
		return SealClaims{}, fmt.Errorf("verify seal: issuer %q", iss)
	}

	out := SealClaims{}
	out.ShoeID, _ = claims["sub"].(string)
	out.Commitment, _ = claims["cmt"].(string)
	if v, ok := claims["dks"].(float64); ok {
		out.Decks = int(v)
	}
	if v, ok := claims["cut"].(float64); ok {
		out.CutIndex = int(v)
	}
	if v, ok := claims["iat"].(float64); ok {
		out.IssuedAt = time.Unix(int64(v), 0)
	}
	return out, nil
}

// Matches reports whether a seal commits to exactly this shoe's order once
// the salt is revealed.
func (s *ShoeSealService) Matches(tokenString string, shoe *domain.Shoe, salt string) (bool, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return false, err
	}
	return claims.ShoeID == shoe.ID && claims.Commitment == shoe.Commitment(salt), nil
}
