package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"lawgic-backend/corpus"
	"lawgic-backend/embedding"
	"lawgic-backend/ner"
	"lawgic-backend/retrieval"
	"lawgic-backend/service"
	"lawgic-backend/term"

	"github.com/google/generative-ai-go/genai"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

const outputPath = "output.json"

// Interactive runner for the analysis pipeline. Reads legal scenarios
// from stdin, prints the extracted terms and matched categories, and
// writes the structured analysis to output.json. No database required.
func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Printf("Warning: No .env file found, using environment variables")
		}
	}

	ctx := context.Background()

	embedder := embedding.NewGeminiEmbedder(os.Getenv("GEMINI_API_KEY"))
	corpusStore := corpus.NewStore(corpus.ConfigFromEnv(), embedder)
	if err := corpusStore.Warm(ctx); err != nil {
		log.Fatalf("Failed to load legal corpus: %v", err)
	}

	extractorOpts := []term.ExtractorOption{}
	if endpoint := os.Getenv("NER_ENDPOINT"); endpoint != "" {
		recognizer := ner.NewHTTPRecognizer(endpoint, ner.WithAPIToken(os.Getenv("NER_API_TOKEN")))
		extractorOpts = append(extractorOpts, term.WithRecognizer(recognizer))
	}
	extractor := term.NewExtractor(extractorOpts...)
	matcher := retrieval.NewMatcher(corpusStore, embedder)

	geminiClient, err := genai.NewClient(ctx, option.WithAPIKey(os.Getenv("GEMINI_API_KEY")))
	if err != nil {
		log.Fatalf("Failed to initialize Gemini: %v", err)
	}

	analysisService := service.NewAnalysisService(
		service.WithExtractor(extractor),
		service.WithMatcher(matcher),
		service.WithGeminiClient(geminiClient),
	)

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("\nEnter your legal scenario (or 'quit' to exit): ")
		line, err := reader.ReadString('\n')
		if err != nil {
			break
		}

		query := strings.TrimSpace(line)
		if query == "" {
			continue
		}
		if strings.EqualFold(query, "quit") || strings.EqualFold(query, "exit") {
			break
		}

		result, err := analysisService.AnalyzeQuery(ctx, service.AnalyzeRequest{Query: query})
		if err != nil {
			log.Printf("Analysis failed: %v", err)
			continue
		}

		fmt.Printf("\nKey terms: %s\n", strings.Join(result.Terms, ", "))
		if len(result.Categories) > 0 {
			fmt.Printf("Matched categories: %s\n", strings.Join(result.Categories, ", "))
		}

		fmt.Println("\n--- Analysis ---")
		fmt.Println(result.Analysis)

		if err := os.WriteFile(outputPath, []byte(result.Analysis), 0644); err != nil {
			log.Printf("Warning: failed to write %s: %v", outputPath, err)
		} else {
			fmt.Printf("\nSaved to %s\n", outputPath)
		}
	}
}
