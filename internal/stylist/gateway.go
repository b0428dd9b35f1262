package stylist

import (
	"context"
	"fmt"
)

// ItemReport is the raw payload of the structured garment-analysis call,
// before URL repair and illustration.
type ItemReport struct {
	Analysis        FashionAnalysis  `json:"analysis"`
	Recommendations []Recommendation `json:"recommendations"`
}

// StylistReply is the raw payload of the structured conversation call,
// before scene illustration and recommendation post-processing.
type StylistReply struct {
	FriendlyResponse string           `json:"friendlyResponse"`
	VisualPrompt     string           `json:"visualPrompt"`
	HairVisualPrompt string           `json:"hairVisualPrompt"`
	Recommendations  []Recommendation `json:"recommendations"`
}

// Aspect ratios understood by the image model.
const (
	AspectSquare   = "1:1"
	AspectPortrait = "3:4"
)

// Gateway is the boundary to the external generative model service.
type Gateway interface {
	// DescribeItem runs the structured garment analysis for one image.
	DescribeItem(ctx context.Context, image []byte) (*ItemReport, error)
	// Converse runs one structured stylist chat call. History is sent
	// text-only; image, when non-nil, is attached to the current turn.
	Converse(ctx context.Context, message string, history []Turn, image []byte) (*StylistReply, error)
	// Illustrate generates one image for the given prompt and aspect ratio.
	Illustrate(ctx context.Context, prompt string, aspectRatio string) ([]byte, error)
}

// GatewayError is a transport or model failure reported by the gateway.
// Status carries the service's status marker (e.g. RESOURCE_EXHAUSTED) when
// one was present.
type GatewayError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *GatewayError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("gateway error %d (%s): %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("gateway error %d: %s", e.StatusCode, e.Message)
}
