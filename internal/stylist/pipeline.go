package stylist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrStylingQuotaExceeded is returned by AnalyzeItem when the gateway reports
// quota exhaustion on the analysis call itself.
var ErrStylingQuotaExceeded = errors.New("STYLING_QUOTA_EXCEEDED")

const (
	outfitScenePrompt = "A high-end, professional fashion editorial photograph of a complete outfit: %s. Minimalist luxury studio, 8k, highly detailed."
	hairScenePrompt   = "A high-end, professional beauty photography close-up of a hairstyle: %s. Minimalist luxury studio, soft lighting, 8k, highly detailed."

	quotaDisclaimer = "\n\n*(Note: I've reached my visual generation limit for the moment, so I've provided high-quality style references instead. I'll be back to full creative power shortly!)*"

	quotaApology = "I'm sorry, but I've reached my daily styling limit. Please try again in a little while, and I'll be happy to help you with your fashion needs!"
)

// Pipeline orchestrates the gateway calls behind the two styling operations.
// Invocations are stateless and independent of each other.
type Pipeline struct {
	gateway Gateway
}

// NewPipeline creates a pipeline on top of the given gateway.
func NewPipeline(gw Gateway) *Pipeline {
	return &Pipeline{gateway: gw}
}

// AnalyzeItem runs the full garment analysis: one structured describe call,
// then a parallel illustration and URL-repair pass over every returned
// recommendation. Returns ErrStylingQuotaExceeded when the describe call
// itself hits the quota; no illustration is attempted in that case.
func (p *Pipeline) AnalyzeItem(ctx context.Context, image []byte) (*AnalysisResult, error) {
	report, err := p.gateway.DescribeItem(ctx, image)
	if err != nil {
		if Classify(err) == KindQuotaExhausted {
			return nil, fmt.Errorf("%w: %s", ErrStylingQuotaExceeded, err)
		}
		return nil, fmt.Errorf("fashion analysis failed: %w", err)
	}

	recs := p.finishRecommendations(ctx, report.Recommendations)

	log.Info().
		Str("category", report.Analysis.Category).
		Int("recommendations", len(recs)).
		Msg("item analysis complete")

	return &AnalysisResult{Analysis: report.Analysis, Recommendations: recs}, nil
}

// finishRecommendations repairs every purchase URL and generates every
// product image concurrently. Results land in index-addressed slots, so
// output order matches input order regardless of completion order. Every
// illustration failure resolves to a placeholder, so this never fails.
func (p *Pipeline) finishRecommendations(ctx context.Context, recs []Recommendation) []Recommendation {
	out := make([]Recommendation, len(recs))

	var wg sync.WaitGroup
	for i, rec := range recs {
		wg.Add(1)
		go func(i int, rec Recommendation) {
			defer wg.Done()
			rec.PurchaseURL = RepairPurchaseURL(rec)
			rec.ImageURL = p.illustrateRecommendation(ctx, rec).Ref
			out[i] = rec
		}(i, rec)
	}
	wg.Wait()

	return out
}

// sceneOutcome is the typed result of one best-effort scene image call.
type sceneOutcome struct {
	Ref       string
	QuotaMiss bool
}

// ContinueChat runs one stylist conversation turn: a structured converse
// call, then one combined parallel batch of scene images (outfit and
// hairstyle, when the model supplied prompts for them) and recommendation
// post-processing. Quota exhaustion on the converse call degrades to a fixed
// apologetic reply instead of failing; any other converse failure is
// returned to the caller.
func (p *Pipeline) ContinueChat(ctx context.Context, message string, image []byte, history []Turn) (*ChatTurnResult, error) {
	reply, err := p.gateway.Converse(ctx, message, history, image)
	if err != nil {
		if Classify(err) == KindQuotaExhausted {
			log.Warn().Msg("stylist quota exhausted, returning degraded reply")
			return &ChatTurnResult{Text: quotaApology, Recommendations: []Recommendation{}}, nil
		}
		return nil, fmt.Errorf("stylist response failed: %w", err)
	}

	outfitPrompt := strings.TrimSpace(reply.VisualPrompt)
	hairPrompt := strings.TrimSpace(reply.HairVisualPrompt)

	var (
		wg     sync.WaitGroup
		outfit sceneOutcome
		hair   sceneOutcome
	)

	if outfitPrompt != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outfit = p.illustrateScene(ctx, fmt.Sprintf(outfitScenePrompt, outfitPrompt), AspectPortrait, "outfit")
		}()
	}
	if hairPrompt != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hair = p.illustrateScene(ctx, fmt.Sprintf(hairScenePrompt, hairPrompt), AspectSquare, "hair")
		}()
	}

	recs := make([]Recommendation, len(reply.Recommendations))
	for i, rec := range reply.Recommendations {
		wg.Add(1)
		go func(i int, rec Recommendation) {
			defer wg.Done()
			rec.PurchaseURL = RepairPurchaseURL(rec)
			rec.ImageURL = p.illustrateRecommendation(ctx, rec).Ref
			recs[i] = rec
		}(i, rec)
	}
	wg.Wait()

	text := reply.FriendlyResponse
	if outfit.QuotaMiss || hair.QuotaMiss {
		text += quotaDisclaimer
		if outfit.Ref == "" {
			seed := outfitPrompt
			if seed == "" {
				seed = "fashion"
			}
			outfit.Ref = placeholderImageURL(seed, 800, 1200)
		}
		if hair.Ref == "" {
			seed := hairPrompt
			if seed == "" {
				seed = "hair"
			}
			hair.Ref = placeholderImageURL(seed, 800, 800)
		}
	}

	return &ChatTurnResult{
		Text:            text,
		ImageURL:        outfit.Ref,
		HairImageURL:    hair.Ref,
		Recommendations: recs,
	}, nil
}

// illustrateScene generates one scene-level image. Non-quota failures are
// logged and leave the reference empty; quota failures are flagged so
// ContinueChat can apply the degraded-response policy after the batch joins.
func (p *Pipeline) illustrateScene(ctx context.Context, prompt, aspectRatio, scene string) sceneOutcome {
	data, err := p.gateway.Illustrate(ctx, prompt, aspectRatio)
	if err != nil {
		if Classify(err) == KindQuotaExhausted {
			return sceneOutcome{QuotaMiss: true}
		}
		log.Error().Err(err).Str("scene", scene).Msg("scene image generation failed")
		return sceneOutcome{}
	}
	return sceneOutcome{Ref: dataImageURL(data)}
}
