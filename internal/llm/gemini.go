package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/lumiere-app/stylist-server/internal/stylist"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// GeminiStylist implements stylist.Gateway using Google's Gemini API:
// structured generation for analysis and conversation, and the image model
// for illustrations.
type GeminiStylist struct {
	client *genai.Client
}

// Ensure GeminiStylist implements the gateway boundary
var _ stylist.Gateway = (*GeminiStylist)(nil)

// NewGeminiStylist creates a new Gemini-backed gateway.
// It uses the GEMINI_API_KEY environment variable for authentication.
func NewGeminiStylist(ctx context.Context) (*GeminiStylist, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: os.Getenv("GEMINI_API_KEY"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiStylist{client: client}, nil
}

// DescribeItem runs the structured garment analysis call for one image.
func (g *GeminiStylist) DescribeItem(ctx context.Context, image []byte) (*stylist.ItemReport, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("no image provided")
	}

	parts := []*genai.Part{
		genai.NewPartFromText(analyzeItemPrompt),
		{InlineData: &genai.Blob{Data: image, MIMEType: "image/jpeg"}},
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		Tools:            []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		ResponseMIMEType: "application/json",
		ResponseSchema:   itemReportSchema,
	}

	result, err := g.client.Models.GenerateContent(ctx, stylistModel, contents, config)
	if err != nil {
		return nil, mapError(err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from Gemini")
	}

	var report stylist.ItemReport
	if err := unmarshalResponse(result.Text(), &report); err != nil {
		return nil, err
	}

	logUsage(result, "item analysis llm call")

	return &report, nil
}

// Converse runs one structured stylist chat call. History turns are sent
// text-only; the current turn carries the supplied image or, when none was
// supplied, the most recent image found scanning history backward.
func (g *GeminiStylist) Converse(ctx context.Context, message string, history []stylist.Turn, image []byte) (*stylist.StylistReply, error) {
	var contents []*genai.Content
	for _, turn := range history {
		var role genai.Role = genai.RoleModel
		if turn.Role == "user" {
			role = genai.RoleUser
		}
		contents = append(contents, genai.NewContentFromParts(
			[]*genai.Part{genai.NewPartFromText(turn.Content)}, role))
	}

	userParts := []*genai.Part{genai.NewPartFromText(message)}
	if img := currentTurnImage(history, image); img != nil {
		userParts = append(userParts, &genai.Part{
			InlineData: &genai.Blob{Data: img, MIMEType: "image/jpeg"},
		})
	}
	contents = append(contents, genai.NewContentFromParts(userParts, genai.RoleUser))

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(stylistSystemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    stylistReplySchema,
	}

	result, err := g.client.Models.GenerateContent(ctx, stylistModel, contents, config)
	if err != nil {
		return nil, mapError(err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from Gemini")
	}

	var reply stylist.StylistReply
	if err := unmarshalResponse(result.Text(), &reply); err != nil {
		return nil, err
	}

	logUsage(result, "stylist chat llm call")

	return &reply, nil
}

// Illustrate generates one image and returns the first inline payload found
// among the candidate parts.
func (g *GeminiStylist) Illustrate(ctx context.Context, prompt string, aspectRatio string) ([]byte, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(prompt)}, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{AspectRatio: aspectRatio},
	}

	result, err := g.client.Models.GenerateContent(ctx, imageModel, contents, config)
	if err != nil {
		return nil, mapError(err)
	}

	for _, cand := range result.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				log.Debug().
					Str("model", imageModel).
					Str("aspectRatio", aspectRatio).
					Int("bytes", len(part.InlineData.Data)).
					Msg("image generated")
				return part.InlineData.Data, nil
			}
		}
	}

	return nil, fmt.Errorf("no image in Gemini response")
}

// currentTurnImage picks the image to attach to the current turn: the one
// just supplied, or the newest userImageUrl found in history.
func currentTurnImage(history []stylist.Turn, image []byte) []byte {
	if len(image) > 0 {
		return image
	}
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].UserImageURL == "" {
			continue
		}
		data, err := stylist.DecodeImageData(history[i].UserImageURL)
		if err != nil {
			log.Warn().Err(err).Msg("failed to decode history image, skipping")
			continue
		}
		return data
	}
	return nil
}

// mapError converts genai SDK errors into the gateway's error type so the
// classifier matches on explicit fields instead of SDK internals.
func mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &stylist.GatewayError{
			StatusCode: apiErr.Code,
			Status:     apiErr.Status,
			Message:    apiErr.Message,
		}
	}
	return err
}

// unmarshalResponse parses a structured-output response body. The JSON
// object is extracted first because tool use can wrap it in extra text.
func unmarshalResponse(text string, v any) error {
	jsonStr, err := extractJSONObject(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(jsonStr), v); err != nil {
		return fmt.Errorf("failed to parse response JSON: %w (response: %s)", err, jsonStr)
	}
	return nil
}

// extractJSONObject extracts a JSON object from text that may contain
// markdown code blocks or other formatting.
func extractJSONObject(text string) (string, error) {
	text = strings.TrimSpace(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response: %s", text)
	}
	return text[start : end+1], nil
}

func logUsage(result *genai.GenerateContentResponse, msg string) {
	if result.UsageMetadata == nil {
		return
	}
	inputTokens := int64(result.UsageMetadata.PromptTokenCount)
	outputTokens := int64(result.UsageMetadata.CandidatesTokenCount)
	log.Info().
		Str("model", stylistModel).
		Int64("inputTokens", inputTokens).
		Int64("outputTokens", outputTokens).
		Float64("costUSD", calculateGeminiCost(inputTokens, outputTokens)).
		Msg(msg)
}

func calculateGeminiCost(inputTokens, outputTokens int64) float64 {
	inputCost := float64(inputTokens) / 1_000_000 * geminiInputPricePerMillion
	outputCost := float64(outputTokens) / 1_000_000 * geminiOutputPricePerMillion
	return inputCost + outputCost
}
