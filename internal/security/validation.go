// Package security provides input validation for remote images and uploads.
package security

import (
	"errors"
	"fmt"
	"io"
	"net/netip"
	"net/url"
	"strings"
)

// ErrSizeLimit is returned once a LimitedReader has delivered its byte budget.
var ErrSizeLimit = errors.New("size limit exceeded")

// ValidateImageURL validates a remote image URL before it is fetched.
// Only HTTPS URLs to public hosts are allowed.
func ValidateImageURL(urlStr string) error {
	if urlStr == "" {
		return fmt.Errorf("empty URL")
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if !strings.EqualFold(parsed.Scheme, "https") {
		return fmt.Errorf("only HTTPS URLs are allowed (got %s)", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("URL must have a hostname")
	}

	// Block localhost and private addresses to prevent SSRF.
	host := strings.ToLower(parsed.Hostname())
	if isLocalOrPrivateHost(host) {
		return fmt.Errorf("URL cannot point to local or private hosts: %s", host)
	}

	return nil
}

// IsRemote reports whether path looks like an HTTP(S) URL.
func IsRemote(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// LimitedReader wraps an io.Reader and fails with ErrSizeLimit when the
// underlying data is larger than Remaining bytes.
type LimitedReader struct {
	R         io.Reader
	Remaining int64
}

// Read implements io.Reader with a size limit.
func (l *LimitedReader) Read(p []byte) (int, error) {
	if l.Remaining < 0 {
		return 0, ErrSizeLimit
	}
	// Read one byte past the budget so oversize input is detected rather than
	// silently truncated.
	if int64(len(p)) > l.Remaining+1 {
		p = p[:l.Remaining+1]
	}
	n, err := l.R.Read(p)
	l.Remaining -= int64(n)
	if l.Remaining < 0 {
		return n + int(l.Remaining), ErrSizeLimit
	}
	return n, err
}

// NewLimitedReader creates a LimitedReader allowing at most maxBytes.
func NewLimitedReader(r io.Reader, maxBytes int64) *LimitedReader {
	return &LimitedReader{R: r, Remaining: maxBytes}
}

// ReadAllLimited reads r to EOF, failing with ErrSizeLimit past maxBytes.
func ReadAllLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(NewLimitedReader(r, maxBytes))
	if err != nil {
		if errors.Is(err, ErrSizeLimit) {
			return nil, fmt.Errorf("input larger than %d bytes: %w", maxBytes, err)
		}
		return nil, err
	}
	return data, nil
}

// isLocalOrPrivateHost checks if a hostname is localhost or a non-public IP.
func isLocalOrPrivateHost(host string) bool {
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}

	addr, err := netip.ParseAddr(strings.Trim(host, "[]"))
	if err != nil {
		// A DNS name; resolution happens in the fetcher.
		return false
	}
	return addr.IsLoopback() ||
		addr.IsPrivate() ||
		addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() ||
		addr.IsUnspecified()
}
