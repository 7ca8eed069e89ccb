package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"syscall"
	"time"

	"github.com/oulia/oulia/gateway/internal/domain/service"
)

// DefaultMaxMediaBytes caps fetched or decoded media.
const DefaultMaxMediaBytes int64 = 10 << 20

const (
	defaultMimeType     = "image/jpeg"
	defaultFetchTimeout = 30 * time.Second
)

var errNonPublicAddress = errors.New("media URL resolves to a non-public address")

// sharedAddressSpace is the carrier-grade NAT range (RFC 6598).
var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

// Media is a resolved media reference ready to be inlined.
type Media struct {
	MimeType string
	// Data is standard base64.
	Data string
}

// MediaLoader resolves media refs: data URLs, bare base64 or http(s) URLs.
type MediaLoader struct {
	client   *http.Client
	maxBytes int64
}

// NewMediaLoader creates a loader whose URL fetches only connect to public
// unicast addresses. Redirect hops are checked the same way.
func NewMediaLoader(timeout time.Duration, maxBytes int64) *MediaLoader {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	dialer := &net.Dialer{Timeout: 10 * time.Second, Control: publicOnly}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		MaxIdleConns:          10,
		IdleConnTimeout:       60 * time.Second,
	}
	return newMediaLoader(&http.Client{Transport: transport, Timeout: timeout}, maxBytes)
}

func newMediaLoader(client *http.Client, maxBytes int64) *MediaLoader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxMediaBytes
	}
	return &MediaLoader{client: client, maxBytes: maxBytes}
}

// publicOnly runs after name resolution, right before connect, so the
// checked address is the one actually dialed.
func publicOnly(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return err
	}
	if !isPublic(ip) {
		return errNonPublicAddress
	}
	return nil
}

func isPublic(ip netip.Addr) bool {
	ip = ip.Unmap()
	switch {
	case !ip.IsGlobalUnicast(),
		ip.IsPrivate(),
		ip.IsLoopback(),
		ip.IsLinkLocalUnicast(),
		sharedAddressSpace.Contains(ip):
		return false
	}
	return true
}

// Load resolves ref. Every failure is a bad-request LLMError since the
// provider was never contacted.
func (l *MediaLoader) Load(ctx context.Context, ref string) (*Media, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return nil, badMedia("empty media reference", nil)
	case strings.HasPrefix(ref, "data:"):
		return l.fromDataURL(ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return l.fetch(ctx, ref)
	default:
		return l.fromBase64(defaultMimeType, ref)
	}
}

func (l *MediaLoader) fromDataURL(ref string) (*Media, error) {
	header, data, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, badMedia("malformed data URL", nil)
	}
	mime, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return nil, badMedia("data URL must be base64 encoded", nil)
	}
	if mime == "" {
		mime = defaultMimeType
	}
	if !isImage(mime) {
		return nil, badMedia(fmt.Sprintf("unsupported media type %q", mime), nil)
	}
	return l.fromBase64(mime, data)
}

func (l *MediaLoader) fromBase64(mime, data string) (*Media, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, badMedia("invalid base64 media", err)
	}
	if int64(len(raw)) > l.maxBytes {
		return nil, badMedia(fmt.Sprintf("media exceeds %d bytes", l.maxBytes), nil)
	}
	return &Media{MimeType: mime, Data: data}, nil
}

func (l *MediaLoader) fetch(ctx context.Context, url string) (*Media, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, badMedia("invalid media URL", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, service.ClassifyError(ctx.Err(), "")
		}
		if errors.Is(err, errNonPublicAddress) {
			return nil, badMedia(errNonPublicAddress.Error(), err)
		}
		return nil, badMedia("fetch media failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, badMedia(fmt.Sprintf("fetch media: HTTP %d", resp.StatusCode), nil)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return nil, badMedia("read media failed", err)
	}
	if int64(len(raw)) > l.maxBytes {
		return nil, badMedia(fmt.Sprintf("media exceeds %d bytes", l.maxBytes), nil)
	}

	mime := resp.Header.Get("Content-Type")
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	mime = strings.TrimSpace(mime)
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(raw)
	}
	if !isImage(mime) {
		return nil, badMedia(fmt.Sprintf("unsupported media type %q", mime), nil)
	}
	return &Media{MimeType: mime, Data: base64.StdEncoding.EncodeToString(raw)}, nil
}

func isImage(mime string) bool {
	return strings.HasPrefix(strings.ToLower(mime), "image/")
}

func badMedia(msg string, cause error) error {
	return &service.LLMError{Kind: service.ErrKindBadRequest, Message: msg, Cause: cause}
}
