package fetch

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-analyzer/internal/apperr"
	"github.com/jonathan/resume-analyzer/internal/logging"
)

// DirectFetcher downloads the page itself and isolates the posting with
// per-platform selectors. When Render is set, pages that come back nearly
// empty are re-rendered in a browser.
type DirectFetcher struct {
	Options *Options
	Render  RenderFunc
	Logger  zerolog.Logger
}

// NewDirectFetcher returns a fetcher; pass a nil render to disable browser fallback.
func NewDirectFetcher(render RenderFunc) *DirectFetcher {
	return &DirectFetcher{
		Options: DefaultOptions(),
		Render:  render,
		Logger:  logging.Component("fetch.direct"),
	}
}

// Read implements Reader.
func (f *DirectFetcher) Read(ctx context.Context, pageURL string) (string, error) {
	platform := DetectPlatform(pageURL)
	content := PlatformContentSelectors(platform)
	noise := PlatformNoiseSelectors(platform)
	log := f.Logger.With().Str("url", pageURL).Str("platform", string(platform)).Logger()

	res, err := Get(ctx, pageURL, f.Options)
	if err != nil {
		log.Warn().Err(err).Msg("direct fetch failed")
		return "", classify(err)
	}

	text, err := ExtractMainText(res.Body, content, noise...)
	if err != nil {
		return "", apperr.Wrap(apperr.KindUnextractableContent, err, "the job page could not be parsed, please paste the description instead")
	}
	log.Debug().Int("chars", len(text)).Msg("extracted page text")

	if f.Render != nil && (ShouldUseBrowser(text) || RendersClientSide(platform)) {
		log.Debug().Msg("falling back to browser rendering")
		html, renderErr := f.Render(ctx, pageURL)
		if renderErr != nil {
			// keep the HTTP text
			log.Warn().Err(renderErr).Msg("browser rendering failed")
		} else if rendered, err := ExtractMainText(html, content, noise...); err == nil && len(rendered) > len(text) {
			text = rendered
		}
	}

	if text == "" {
		return "", apperr.New(apperr.KindUnextractableContent, "no readable text on the job page, please paste the description instead")
	}
	return text, nil
}
