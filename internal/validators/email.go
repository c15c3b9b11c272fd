package validators

import (
	"context"
	"errors"
	"net"
	"net/mail"
	"strings"
)

var (
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrUnreachableDomain = errors.New("email domain does not resolve")
)

// Resolver is the subset of *net.Resolver used for domain checks.
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// Email checks the address syntax and that its domain has an MX or an
// address record. A nil resolver uses net.DefaultResolver.
func Email(ctx context.Context, r Resolver, address string) error {
	parsed, err := mail.ParseAddress(address)
	if err != nil || parsed.Address != address {
		return ErrInvalidEmail
	}

	at := strings.LastIndex(address, "@")
	domain := address[at+1:]
	if domain == "" || !strings.Contains(domain, ".") {
		return ErrInvalidEmail
	}

	if r == nil {
		r = net.DefaultResolver
	}

	if mx, err := r.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return nil
	}
	if ips, err := r.LookupIPAddr(ctx, domain); err == nil && len(ips) > 0 {
		return nil
	}
	return ErrUnreachableDomain
}
