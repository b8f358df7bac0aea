package auth

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"ticketing-api/internal/models"
)

// Claims is the payload of an access token. Subject carries the customer id.
type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// CustomerID parses the subject claim.
func (c *Claims) CustomerID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// Issuer signs and verifies HS256 access tokens.
type Issuer struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, expiry time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), expiry: expiry, now: time.Now}
}

// Issue returns a signed token for the customer along with its claims.
func (i *Issuer) Issue(customerID int64, role models.Role) (string, *Claims, error) {
	now := i.now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(customerID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.expiry)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", nil, errors.Wrap(err, "sign token")
	}
	return token, claims, nil
}

// Parse verifies the signature, algorithm and expiry of tokenString.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.Mark(errors.New("empty token"), models.ErrUnauthenticated)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "invalid token"), models.ErrUnauthenticated)
	}
	if _, err := claims.CustomerID(); err != nil {
		return nil, errors.Mark(errors.New("invalid token subject"), models.ErrUnauthenticated)
	}
	if claims.Role != models.RoleUser && claims.Role != models.RoleAdmin {
		return nil, errors.Mark(errors.New("invalid token role"), models.ErrUnauthenticated)
	}
	return claims, nil
}

// ExtractTokenFromRequest extracts a JWT token from an HTTP request's Authorization header
func ExtractTokenFromRequest(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.Mark(errors.New("Authorization header is missing"), models.ErrUnauthenticated)
	}

	// Bearer token format: "Bearer {token}"
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.Mark(errors.New("Authorization header format must be 'Bearer {token}'"), models.ErrUnauthenticated)
	}

	return parts[1], nil
}
