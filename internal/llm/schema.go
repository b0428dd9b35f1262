package llm

import "google.golang.org/genai"

// Response schemas mirror the JSON shapes the stylist package unmarshals
// into. Gemini's structured output guarantees the keys; values are still
// validated/repaired by the pipeline.

var itemRecommendationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"name":        {Type: genai.TypeString},
		"category":    {Type: genai.TypeString},
		"reason":      {Type: genai.TypeString},
		"platform":    {Type: genai.TypeString},
		"priceRange":  {Type: genai.TypeString},
		"imageUrl":    {Type: genai.TypeString},
		"purchaseUrl": {Type: genai.TypeString},
		"matchScore":  {Type: genai.TypeInteger},
	},
	Required: []string{"name", "category", "reason", "platform", "priceRange", "imageUrl", "purchaseUrl", "matchScore"},
}

var itemReportSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"analysis": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"color":       {Type: genai.TypeString},
				"pattern":     {Type: genai.TypeString},
				"style":       {Type: genai.TypeString},
				"category":    {Type: genai.TypeString},
				"description": {Type: genai.TypeString},
				"hairStyle":   {Type: genai.TypeString, Description: "The user's hairstyle if visible"},
				"hairColor":   {Type: genai.TypeString, Description: "The user's hair color if visible"},
			},
			Required: []string{"color", "pattern", "style", "category", "description"},
		},
		"recommendations": {
			Type:  genai.TypeArray,
			Items: itemRecommendationSchema,
		},
	},
	Required: []string{"analysis", "recommendations"},
}

var chatRecommendationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"name":        {Type: genai.TypeString},
		"category":    {Type: genai.TypeString},
		"reason":      {Type: genai.TypeString},
		"platform":    {Type: genai.TypeString},
		"priceRange":  {Type: genai.TypeString},
		"purchaseUrl": {Type: genai.TypeString},
	},
	Required: []string{"name", "category", "reason", "platform", "priceRange", "purchaseUrl"},
}

var stylistReplySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"friendlyResponse": {Type: genai.TypeString},
		"visualPrompt":     {Type: genai.TypeString},
		"hairVisualPrompt": {Type: genai.TypeString},
		"recommendations": {
			Type:  genai.TypeArray,
			Items: chatRecommendationSchema,
		},
	},
	Required: []string{"friendlyResponse", "visualPrompt", "hairVisualPrompt", "recommendations"},
}
