package transform

import (
	"net/url"
	"strings"

	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/provider"
)

// The provider ships image hrefs with a literal resize token the consumer is
// expected to substitute before serving.
const (
	resizeToken      = "{resize}"
	targetResolution = "w800h600"

	// PlaceholderImageURL is served when a listing carries no usable imagery.
	PlaceholderImageURL = "https://cdn.motortradelink.co.uk/stock/placeholder-w800h600.jpg"
)

var trustedImageHosts = map[string]bool{
	"cdn.motortradelink.co.uk":    true,
	"images.motortradelink.co.uk": true,
}

// NormalizeImageURL validates one provider image href and substitutes the
// resize token. It reports false for anything that must not reach storage:
// empty, non-HTTPS, or unparseable URLs.
func NormalizeImageURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	raw = strings.ReplaceAll(raw, resizeToken, targetResolution)

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme != "https" || parsed.Host == "" {
		return "", false
	}
	return parsed.String(), true
}

// selectImages picks the cover image and gallery for a listing. Trusted CDN
// hosts are preferred for the cover and ordered first in the gallery; invalid
// hrefs are dropped. A listing with no valid imagery gets the placeholder
// cover and an empty gallery.
func selectImages(media *provider.Media) (string, []string) {
	if media == nil {
		return PlaceholderImageURL, nil
	}

	var trusted, other []string
	for _, img := range media.Images {
		normalized, ok := NormalizeImageURL(img.Href)
		if !ok {
			continue
		}
		if parsed, err := url.Parse(normalized); err == nil && trustedImageHosts[parsed.Host] {
			trusted = append(trusted, normalized)
		} else {
			other = append(other, normalized)
		}
	}

	gallery := append(trusted, other...)
	if len(gallery) == 0 {
		return PlaceholderImageURL, nil
	}
	return gallery[0], gallery
}
