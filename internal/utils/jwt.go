package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every reason a token is rejected: malformed,
// wrong algorithm, bad signature, expired, or missing claims.
var ErrInvalidToken = errors.New("invalid token")

// AdminClaims is what a signed access token asserts about its bearer.
type AdminClaims struct {
	AdminID  uint64 `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AccessToken represents a signed JWT access token along with its expiry.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for an admin.  The token
// carries the admin id and username plus sub, iat and exp; exp is now+ttl.
// Verification needs only the secret.
func NewAccessToken(secret string, adminID uint64, username string, ttl time.Duration, now time.Time) (AccessToken, error) {
	now = now.UTC()
	exp := now.Add(ttl)
	claims := AdminClaims{
		AdminID:  adminID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(adminID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies raw against secret as of now and returns its
// claims.  It is a pure function: no store, no session state.  Any failure
// is reported as ErrInvalidToken wrapping the parser's reason.
func ParseAccessToken(secret, raw string, now time.Time) (AdminClaims, error) {
	var claims AdminClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		// Reject anything that is not HMAC, e.g. alg=none or RS256 downgrade.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	},
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return AdminClaims{}, errors.Join(ErrInvalidToken, err)
	}
	if !tok.Valid || claims.Username == "" || claims.AdminID == 0 {
		return AdminClaims{}, ErrInvalidToken
	}
	return claims, nil
}
