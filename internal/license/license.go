// Package license produces LICENSE file text. Templates are fetched from a
// remote source (choosealicense.com by default) whose files carry YAML front
// matter; the short permissive licenses also ship embedded so a network
// failure does not cost the user their LICENSE file.
package license

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/pyinit/internal/options"
)

//go:embed licenses/*.txt
var embeddedFS embed.FS

// ErrUnsupported is returned for a license identifier outside
// options.SupportedLicenses. Callers treat it as a warning.
var ErrUnsupported = errors.New("unsupported license")

// DefaultTimeout is used when a Fetcher is built with a zero timeout.
const DefaultTimeout = 10 * time.Second

// Fetcher downloads license templates.
type Fetcher struct {
	// URLTemplate contains {id}, replaced by the lower-cased identifier.
	URLTemplate string
	Client      *http.Client
}

// NewFetcher creates a Fetcher with its own bounded HTTP client.
func NewFetcher(urlTemplate string, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		URLTemplate: urlTemplate,
		Client:      &http.Client{Timeout: timeout},
	}
}

// Text is a rendered LICENSE body.
type Text struct {
	Content string
	// Remote is false when the embedded copy was used.
	Remote bool
}

// Render fetches the template for id and substitutes the year and holder.
// Unsupported identifiers yield ErrUnsupported. A failed fetch falls back to
// the embedded copy when one exists.
func (f *Fetcher) Render(ctx context.Context, id options.License, holder string, year int) (Text, error) {
	if !id.Supported() {
		return Text{}, fmt.Errorf("%w: %s", ErrUnsupported, id)
	}

	raw, remote, err := f.fetchWithFallback(ctx, id)
	if err != nil {
		return Text{}, err
	}

	body, err := parseTemplate(raw, id)
	if err != nil {
		return Text{}, err
	}

	return Text{Content: Substitute(body, holder, year), Remote: remote}, nil
}

func (f *Fetcher) fetchWithFallback(ctx context.Context, id options.License) ([]byte, bool, error) {
	raw, err := f.fetch(ctx, id)
	if err == nil {
		return raw, true, nil
	}

	if !HasEmbedded(id) {
		return nil, false, fmt.Errorf("fetching %s license: %w", id, err)
	}
	embedded, embErr := embeddedFS.ReadFile(embeddedPath(id))
	if embErr != nil {
		return nil, false, fmt.Errorf("reading bundled %s license: %w", id, embErr)
	}
	return embedded, false, nil
}

func (f *Fetcher) fetch(ctx context.Context, id options.License) ([]byte, error) {
	url := strings.ReplaceAll(f.URLTemplate, "{id}", fileID(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}

// fileID is the template file name for id, e.g. apache-2.0.
func fileID(id options.License) string {
	return strings.ToLower(string(id))
}

type frontMatter struct {
	Title  string `yaml:"title"`
	SpdxID string `yaml:"spdx-id"`
}

// parseTemplate strips the front matter and checks that the template is
// for the license that was asked for.
func parseTemplate(raw []byte, id options.License) (string, error) {
	meta, body, err := SplitFrontMatter(raw)
	if err != nil {
		return "", fmt.Errorf("parsing %s license template: %w", id, err)
	}
	if meta != nil {
		var fm frontMatter
		if err := yaml.Unmarshal(meta, &fm); err != nil {
			return "", fmt.Errorf("parsing %s license front matter: %w", id, err)
		}
		if fm.SpdxID != "" && !strings.EqualFold(fm.SpdxID, string(id)) {
			return "", fmt.Errorf("license template mismatch: asked for %s, got %s", id, fm.SpdxID)
		}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return "", fmt.Errorf("empty %s license template", id)
	}
	return string(body), nil
}

var delimiter = []byte("---")

// SplitFrontMatter separates a leading "---" delimited YAML block from the
// body. meta is nil when there is no front matter.
func SplitFrontMatter(raw []byte) (meta, body []byte, err error) {
	raw = bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(raw, append(append([]byte{}, delimiter...), '\n')) {
		return nil, raw, nil
	}

	rest := raw[len(delimiter)+1:]
	if bytes.HasPrefix(rest, []byte("---\n")) {
		return []byte{}, bytes.TrimLeft(rest[len("---\n"):], "\n"), nil
	}
	end := bytes.Index(rest, []byte("\n---\n"))
	if end < 0 {
		if bytes.HasSuffix(rest, []byte("\n---")) {
			return rest[:len(rest)-len("\n---")], nil, nil
		}
		return nil, nil, errors.New("unterminated front matter")
	}

	meta = rest[:end]
	body = bytes.TrimLeft(rest[end+len("\n---\n"):], "\n")
	return meta, body, nil
}

// Substitute fills the [year] and [fullname] placeholders.
func Substitute(body, holder string, year int) string {
	return strings.NewReplacer(
		"[year]", strconv.Itoa(year),
		"[fullname]", holder,
	).Replace(body)
}

func embeddedPath(id options.License) string {
	return "licenses/" + fileID(id) + ".txt"
}

// HasEmbedded reports whether id renders without network access.
func HasEmbedded(id options.License) bool {
	_, err := fs.Stat(embeddedFS, embeddedPath(id))
	return err == nil
}
