package stylist

// FashionAnalysis holds the semantic attributes extracted from a garment
// photo. The hair fields are only filled when a person is visible in the
// image.
type FashionAnalysis struct {
	Color       string `json:"color"`
	Pattern     string `json:"pattern"`
	Style       string `json:"style"`
	Category    string `json:"category"`
	Description string `json:"description"`
	HairStyle   string `json:"hairStyle,omitempty"`
	HairColor   string `json:"hairColor,omitempty"`
}

// Recommendation is one suggested item to complete a look. PurchaseURL and
// ImageURL are rewritten exactly once by the pipeline before a recommendation
// is returned to a caller.
type Recommendation struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Reason      string `json:"reason"`
	Platform    string `json:"platform"`
	PriceRange  string `json:"priceRange"`
	MatchScore  int    `json:"matchScore"`
	PurchaseURL string `json:"purchaseUrl"`
	ImageURL    string `json:"imageUrl"`
}

// Turn is one exchange in the stylist conversation. UserImageURL carries the
// data-URL of an image the user attached to that turn, if any.
type Turn struct {
	Role         string `json:"role"` // "user" or "assistant"
	Content      string `json:"content"`
	UserImageURL string `json:"userImageUrl,omitempty"`
}

// AnalysisResult is the final output of the item-analysis operation.
// Recommendations is never nil, though it may be empty.
type AnalysisResult struct {
	Analysis        FashionAnalysis  `json:"analysis"`
	Recommendations []Recommendation `json:"recommendations"`
}

// ChatTurnResult is the final output of one stylist conversation turn.
// ImageURL and HairImageURL may be empty when the model supplied no scene
// prompt for them.
type ChatTurnResult struct {
	Text            string           `json:"text"`
	ImageURL        string           `json:"imageUrl"`
	HairImageURL    string           `json:"hairImageUrl"`
	Recommendations []Recommendation `json:"recommendations"`
}
