package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
)

// Options configures FromURL.
type Options struct {
	// UseBrowser enables the headless fallback for pages whose HTTP text is
	// shorter than MinContentLength.
	UseBrowser bool
	// Client overrides the HTTP client.
	Client *http.Client
	// Render overrides the headless renderer.
	Render Renderer
	Logger *slog.Logger
}

// FromURL fetches a job posting, extracts its main text with the selectors of
// the detected job board, and cleans it.
func FromURL(ctx context.Context, rawURL string, opts Options) (string, *Metadata, error) {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	render := opts.Render
	if render == nil {
		render = RenderWithChrome
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "ingestion", "url", rawURL)

	platform := DetectPlatform(rawURL)
	content, noise := platform.ContentSelectors(), platform.NoiseSelectors()

	html, err := fetchHTML(ctx, client, rawURL)
	if err != nil {
		return "", nil, err
	}

	text, err := ExtractMainText(html, content, noise...)
	if err != nil {
		return "", nil, fmt.Errorf("content extraction failed: %w", err)
	}
	logger.Debug("extracted page text", "platform", platform, "chars", len(text))

	rendered := false
	if opts.UseBrowser && tooShort(text) {
		logger.Info("page text too short, rendering in browser", "chars", len(text), "min", MinContentLength)
		browserHTML, err := render(ctx, rawURL)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return "", nil, ctx.Err()
			}
			logger.Warn("browser rendering failed, keeping HTTP text", "error", err)
		default:
			if browserText, err := ExtractMainText(browserHTML, content, noise...); err == nil && len(browserText) > len(text) {
				text = browserText
				rendered = true
			}
		}
	}

	cleaned := CleanText(text)
	if cleaned == "" {
		return "", nil, fmt.Errorf("%s: %w", rawURL, ErrEmptyText)
	}

	meta := NewMetadata(cleaned, rawURL)
	meta.Platform = string(platform)
	meta.Rendered = rendered
	return cleaned, meta, nil
}
