package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lumiere-app/stylist-server/config"
	"github.com/lumiere-app/stylist-server/internal/llm"
	"github.com/lumiere-app/stylist-server/internal/stylist"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <image-path>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment variables:\n")
		fmt.Fprintf(os.Stderr, "  GEMINI_API_KEY - Required\n")
		os.Exit(1)
	}

	config.LoadEnvFile()

	image, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read image: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	gateway, err := llm.NewGeminiStylist(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating gemini stylist: %v\n", err)
		os.Exit(1)
	}

	pipeline := stylist.NewPipeline(gateway)
	result, err := pipeline.AnalyzeItem(ctx, image)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error analyzing item: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
