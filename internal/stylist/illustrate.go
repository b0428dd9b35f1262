package stylist

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"

	"github.com/rs/zerolog/log"
)

const productShotPrompt = "A high-end, professional fashion product photograph of %s (%s). Minimalist luxury studio background, soft lighting, high fashion aesthetic, 8k resolution."

// illustration is the typed outcome of one best-effort product image call:
// either a real image reference, or a fallback carrying the failure kind
// that caused it.
type illustration struct {
	Ref      string
	FellBack bool
	Reason   ErrorKind
}

// placeholderImageURL builds a deterministic placeholder reference. The same
// seed always yields the same image.
func placeholderImageURL(seed string, width, height int) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/%d/%d", url.PathEscape(seed), width, height)
}

// dataImageURL encodes raw image bytes as an inline data reference.
func dataImageURL(data []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
}

// illustrateRecommendation generates a product image for one recommendation.
// Single attempt, no retry. Any failure resolves to the name-seeded
// placeholder so every recommendation ends up with an image. Quota failures
// are an expected condition and not logged.
func (p *Pipeline) illustrateRecommendation(ctx context.Context, rec Recommendation) illustration {
	prompt := fmt.Sprintf(productShotPrompt, rec.Name, rec.Category)
	data, err := p.gateway.Illustrate(ctx, prompt, AspectSquare)
	if err != nil {
		kind := Classify(err)
		if kind != KindQuotaExhausted {
			log.Error().Err(err).Str("name", rec.Name).Msg("recommendation image generation failed")
		}
		return illustration{
			Ref:      placeholderImageURL(rec.Name, 400, 400),
			FellBack: true,
			Reason:   kind,
		}
	}
	return illustration{Ref: dataImageURL(data)}
}
