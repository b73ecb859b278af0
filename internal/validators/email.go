package validators

import (
	"context"
	"net"
	"strings"
	"sync"
	"time"
)

// Resolver é o pedaço de *net.Resolver usado na checagem.
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// DomainChecker confere se o domínio do e-mail recebe mensagens (MX, ou A/AAAA
// como fallback). Respostas positivas ficam em cache.
type DomainChecker struct {
	resolver Resolver
	timeout  time.Duration

	mu    sync.RWMutex
	known map[string]bool
}

func NewDomainChecker(r Resolver, timeout time.Duration) *DomainChecker {
	if r == nil {
		r = net.DefaultResolver
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &DomainChecker{resolver: r, timeout: timeout, known: map[string]bool{}}
}

func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(email[at+1:]))
}

func (d *DomainChecker) Check(email string) bool {
	domain := emailDomain(email)
	if domain == "" {
		return false
	}

	d.mu.RLock()
	ok := d.known[domain]
	d.mu.RUnlock()
	if ok {
		return true
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if mx, err := d.resolver.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		ok = true
	} else if ips, err := d.resolver.LookupIPAddr(ctx, domain); err == nil && len(ips) > 0 {
		ok = true
	}

	if ok {
		d.mu.Lock()
		d.known[domain] = true
		d.mu.Unlock()
	}
	return ok
}
