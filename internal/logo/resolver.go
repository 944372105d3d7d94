package logo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sethvargo/go-retry"

	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/logging"
)

// ErrInvalidDomain is returned for inputs that fail validation; such inputs
// never cause a network call.
var ErrInvalidDomain = errors.New("invalid domain")

// domainAliases maps a handful of well-known domains to the domain whose
// branding is actually wanted.
var domainAliases = map[string]string{
	"x.com":     "twitter.com",
	"gmail.com": "google.com",
}

// specialProviders holds known-good logo URLs for popular services, tried
// before the general cascade.
var specialProviders = map[string][]string{
	"google.com":  {"https://www.google.com/images/branding/googlelogo/1x/googlelogo_color_272x92dp.png"},
	"youtube.com": {"https://www.youtube.com/s/desktop/12d6b690/img/favicon_144x144.png"},
	"github.com":  {"https://github.githubassets.com/favicons/favicon.png"},
	"twitter.com": {"https://abs.twimg.com/responsive-web/client-web/icon-default.522d363a.png"},
}

// generalProviders returns the fixed-order cascade for a domain: a
// commercial logo API, a search-engine favicon service, a privacy-focused
// favicon service, and finally the site's own favicon.
func generalProviders(domain string) []string {
	return []string{
		"https://logo.clearbit.com/" + domain,
		"https://t1.gstatic.com/faviconV2?client=SOCIAL&type=FAVICON&fallback_opts=TYPE,SIZE,URL&url=" + domain + "&size=128",
		"https://icons.duckduckgo.com/ip3/" + domain + ".ico",
		"https://" + domain + "/favicon.ico",
	}
}

const (
	defaultAttemptTimeout = 5 * time.Second
	defaultMaxRetries     = 2
	defaultRetryDelay     = time.Second
	cacheSize             = 4096
)

// Resolver walks the provider cascade for a domain and caches the outcome,
// success or placeholder, for the lifetime of the process.
type Resolver struct {
	client     *http.Client
	cache      *lru.Cache[string, string]
	logger     logging.Logger
	timeout    time.Duration
	maxRetries uint64
	retryDelay time.Duration

	// providers may be overridden in tests; defaults to the alias/special/
	// general chain above.
	providers func(domain string) []string
}

func NewResolver(logger logging.Logger, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = defaultAttemptTimeout
	}
	cache, _ := lru.New[string, string](cacheSize)
	return &Resolver{
		client:     &http.Client{},
		cache:      cache,
		logger:     logger.With("module", "logo_resolver"),
		timeout:    timeout,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
	}
}

// Resolve validates the raw domain string and returns a data URL for its
// logo: the first usable provider image, or the deterministic placeholder
// when every provider fails. Resolve only returns an error for invalid
// input.
func (r *Resolver) Resolve(ctx context.Context, raw string) (string, error) {

	domain := CleanDomain(raw)
	if !ValidDomain(domain) {
		return "", ErrInvalidDomain
	}

	if cached, ok := r.cache.Get(domain); ok {
		return cached, nil
	}

	result := r.resolve(ctx, domain)
	r.cache.Add(domain, result)
	return result, nil
}

func (r *Resolver) resolve(ctx context.Context, domain string) string {

	target := domain
	if alias, ok := domainAliases[target]; ok {
		target = alias
	}

	var urls []string
	urls = append(urls, specialProviders[target]...)
	if r.providers != nil {
		urls = append(urls, r.providers(target)...)
	} else {
		urls = append(urls, generalProviders(target)...)
	}

	for _, u := range urls {
		data, err := r.tryFetch(ctx, u)
		if err != nil {
			r.logger.Debug(ctx, "provider attempt failed", "url", u, "error", err.Error())
			continue
		}
		normalized, err := Normalize(data)
		if err != nil {
			r.logger.Debug(ctx, "provider returned undecodable image", "url", u)
			continue
		}
		return normalized
	}

	r.logger.Debug(ctx, "all providers exhausted, using placeholder", "domain", domain)
	return Placeholder(domain)
}

// tryFetch requests one provider URL with a per-attempt timeout, retrying
// timeouts a bounded number of times with fixed backoff. Any usable image
// body is returned; everything else is an error that advances the cascade.
func (r *Resolver) tryFetch(ctx context.Context, url string) ([]byte, error) {

	var data []byte

	backoff := retry.WithMaxRetries(r.maxRetries, retry.NewConstant(r.retryDelay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}

		resp, err := r.client.Do(req)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || attemptCtx.Err() != nil {
				// network timeout: worth another attempt
				return retry.RetryableError(err)
			}
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if !Usable(body) {
			return fmt.Errorf("image too small or invalid: %d bytes", len(body))
		}

		data = body
		return nil
	})

	if err != nil {
		return nil, err
	}

	return data, nil
}
