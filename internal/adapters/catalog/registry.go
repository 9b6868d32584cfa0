// Package catalog implements the source catalog: registry index lookups plus
// pinned git, url and path sources behind one port.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/lode/internal/core/domain"
	"go.trai.ch/lode/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	maxRetries     = 3
	initialBackoff = 200 * time.Millisecond
	maxBodySize    = 8 << 20
)

// RegistryClient talks to a package index over HTTP. Candidate metadata is
// immutable once published, so responses are memoized through the metadata
// cache and a cache hit never revalidates.
type RegistryClient struct {
	baseURL string
	client  *http.Client
	cache   ports.MetadataCache
	logger  ports.Logger
	// sleep is swapped in tests to skip real backoff waits.
	sleep func(time.Duration)
}

// NewRegistryClient creates a client for the index at baseURL.
func NewRegistryClient(baseURL string, client *http.Client, cache ports.MetadataCache, logger ports.Logger) *RegistryClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &RegistryClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		cache:   cache,
		logger:  logger,
		sleep:   time.Sleep,
	}
}

// versionsDocument is the index response listing a package's versions.
type versionsDocument struct {
	Versions []string `json:"versions"`
}

// candidateDocument is the index response for one exact version.
type candidateDocument struct {
	Name         string              `json:"name"`
	Version      string              `json:"version"`
	Digest       string              `json:"digest"`
	Dependencies []string            `json:"dependencies"`
	Extras       map[string][]string `json:"extras"`
}

// ListVersions returns all known versions of a package, unordered.
func (c *RegistryClient) ListVersions(ctx context.Context, name domain.PackageName) ([]domain.Version, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/packages/%s", c.baseURL, url.PathEscape(name.String())))
	if err != nil {
		return nil, zerr.With(err, "package", name.String())
	}

	var doc versionsDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to decode version listing"), "package", name.String())
	}

	versions := make([]domain.Version, 0, len(doc.Versions))
	for _, raw := range doc.Versions {
		v, err := domain.ParseVersion(raw)
		if err != nil {
			// Unparseable versions on the index are skipped, not
			// fatal: the package's other versions stay usable.
			c.logger.Warn("skipping unparseable version", "package", name.String(), "version", raw)
			continue
		}
		versions = append(versions, v)
	}
	return versions, nil
}

// FetchMetadata returns the candidate for one exact version, through the
// metadata cache.
func (c *RegistryClient) FetchMetadata(ctx context.Context, name domain.PackageName, version domain.Version) (*domain.CandidateVersion, error) {
	key := name.String() + "\x00" + version.String()
	if c.cache != nil {
		if data, ok := c.cache.Get(key); ok {
			return decodeCandidate(data, name, version)
		}
	}

	body, err := c.get(ctx, fmt.Sprintf("%s/packages/%s/%s", c.baseURL, url.PathEscape(name.String()), url.PathEscape(version.String())))
	if err != nil {
		return nil, zerr.With(zerr.With(err, "package", name.String()), "version", version.String())
	}

	cand, err := decodeCandidate(body, name, version)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		if err := c.cache.Put(key, body); err != nil {
			c.logger.Warn("failed to cache metadata", "package", name.String(), "error", err)
		}
	}
	return cand, nil
}

// FetchDocument fetches candidate metadata from an arbitrary URL, for direct
// url sources.
func (c *RegistryClient) FetchDocument(ctx context.Context, rawURL string) ([]byte, error) {
	return c.get(ctx, rawURL)
}

// Fingerprint identifies the index this client talks to.
func (c *RegistryClient) Fingerprint() string {
	h := xxhash.New()
	_, _ = h.WriteString(c.baseURL)
	return fmt.Sprintf("%016x", h.Sum64())
}

// get performs one GET with bounded retries. 404 maps to ErrNotFound without
// retrying; connection errors and 5xx responses retry with doubling backoff
// before surfacing ErrNetwork.
func (c *RegistryClient) get(ctx context.Context, rawURL string) ([]byte, error) {
	backoff := initialBackoff
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			c.sleep(backoff)
			backoff *= 2
		}
		if err := ctx.Err(); err != nil {
			return nil, zerr.Wrap(err, "fetch cancelled")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to build index request")
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
			_ = resp.Body.Close()
			if err != nil {
				lastErr = err
				continue
			}
			return body, nil
		case resp.StatusCode == http.StatusNotFound:
			_ = resp.Body.Close()
			return nil, zerr.With(zerr.Wrap(domain.ErrNotFound, "index has no such resource"), "url", rawURL)
		case resp.StatusCode >= 500:
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("index returned status %d", resp.StatusCode)
			continue
		default:
			_ = resp.Body.Close()
			return nil, zerr.With(zerr.Wrap(domain.ErrNetwork, fmt.Sprintf("index returned status %d", resp.StatusCode)), "url", rawURL)
		}
	}
	return nil, zerr.With(zerr.Wrap(domain.ErrNetwork, fmt.Sprintf("index unreachable after %d attempts: %v", maxRetries, lastErr)), "url", rawURL)
}

func decodeCandidate(data []byte, name domain.PackageName, version domain.Version) (*domain.CandidateVersion, error) {
	var doc candidateDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to decode candidate metadata"), "package", name.String())
	}

	cand := &domain.CandidateVersion{
		Name:    name,
		Version: version,
		Source:  domain.Source{Kind: domain.SourceRegistry},
		Digest:  doc.Digest,
	}
	var err error
	cand.Dependencies, err = parseRequirementList(doc.Dependencies)
	if err != nil {
		return nil, zerr.With(err, "package", name.String())
	}
	if len(doc.Extras) > 0 {
		cand.ExtraDependencies = make(map[string][]domain.Requirement, len(doc.Extras))
		for extra, reqs := range doc.Extras {
			parsed, err := parseRequirementList(reqs)
			if err != nil {
				return nil, zerr.With(zerr.With(err, "package", name.String()), "extra", extra)
			}
			cand.ExtraDependencies[extra] = parsed
		}
	}
	return cand, nil
}

// documentVersion extracts the declared version of a candidate document.
func documentVersion(data []byte) (domain.Version, error) {
	var doc candidateDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Version{}, zerr.Wrap(err, "failed to decode candidate metadata")
	}
	return domain.ParseVersion(doc.Version)
}

func parseRequirementList(raw []string) ([]domain.Requirement, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]domain.Requirement, len(raw))
	for i, s := range raw {
		req, err := domain.ParseRequirement(s)
		if err != nil {
			return nil, err
		}
		out[i] = req
	}
	return out, nil
}
