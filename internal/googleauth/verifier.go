package googleauth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
)

var (
	// ErrForeignDomain rejects assertions from outside the institute.
	ErrForeignDomain = errors.New("email outside allowed domain")
	// ErrInvalidToken covers unverifiable or expired assertions.
	ErrInvalidToken = errors.New("invalid google token")
	// ErrUpstream means the verification call itself failed, distinct from
	// an assertion that verified and was rejected.
	ErrUpstream = errors.New("google verification unavailable")
)

// Identity is the verified principal extracted from a Google ID token.
type Identity struct {
	Email   string
	Name    string
	Picture string
	RollNo  string
}

// Verifier validates a student's federated identity assertion.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// Client verifies Google ID tokens against one OAuth client id and one
// institutional email domain.
type Client struct {
	audience string
	domain   string
}

// New creates a verifier. domain is the bare suffix, e.g. "student.nitw.ac.in".
func New(audience, domain string) *Client {
	return &Client{audience: audience, domain: domain}
}

// Verify checks the token signature and audience with Google, then applies
// the institutional domain gate and derives the roll number.
func (c *Client) Verify(ctx context.Context, token string) (Identity, error) {
	payload, err := idtoken.Validate(ctx, token, c.audience)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return Identity{}, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	email, _ := payload.Claims["email"].(string)
	if !strings.HasSuffix(email, "@"+c.domain) {
		return Identity{}, ErrForeignDomain
	}

	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)
	return Identity{
		Email:   email,
		Name:    name,
		Picture: picture,
		RollNo:  RollFromEmail(email),
	}, nil
}

// RollFromEmail derives the institutional roll number from the email local
// part. Institute addresses carry the roll number verbatim before the "@".
func RollFromEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at < 0 {
		return strings.ToUpper(email)
	}
	return strings.ToUpper(email[:at])
}
