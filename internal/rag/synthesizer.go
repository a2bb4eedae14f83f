// ABOUTME: AnswerSynthesizer builds a bounded context window and generates answers
// ABOUTME: Budget-drops low-ranked chunks first; upstream failures become a polite fallback
package rag

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/harper/portfolio-rag/internal/llm"
	"github.com/harper/portfolio-rag/internal/models"
)

// tokensPerWord approximates token usage from whitespace-separated words
const tokensPerWord = 1.3

const systemPreamble = `You are an AI assistant representing a developer's portfolio. Your role is to answer questions about the developer's skills, experience, and projects based on the provided context.

Guidelines:
- Answer based only on the information provided in the context
- Be helpful, professional, and accurate
- If you don't have enough information, say so clearly
- Highlight relevant skills, experience, and achievements
- Keep responses concise but informative
- Use a friendly, professional tone`

// FallbackAnswer is returned when answer generation fails
const FallbackAnswer = "I'm sorry, I encountered an error while generating a response. Please try again."

// Generator is the upstream text-generation API surface
type Generator interface {
	CreateCompletion(ctx context.Context, system, user string, maxTokens int, temperature float32) (*llm.Completion, error)
	ChatModel() string
}

// SynthesisResult is one synthesized answer with its provenance
type SynthesisResult struct {
	Answer     string
	TokensUsed int
	ModelUsed  string
	ChunksUsed []string
}

// Synthesizer turns ranked chunks into a grounded answer
type Synthesizer struct {
	generator        Generator
	maxContextTokens int
	maxAnswerTokens  int
	temperature      float32
}

// NewSynthesizer creates a Synthesizer with the given context budget and
// generation parameters
func NewSynthesizer(generator Generator, maxContextTokens, maxAnswerTokens int, temperature float32) *Synthesizer {
	if maxContextTokens <= 0 {
		maxContextTokens = 4000
	}
	if maxAnswerTokens <= 0 {
		maxAnswerTokens = 500
	}
	return &Synthesizer{
		generator:        generator,
		maxContextTokens: maxContextTokens,
		maxAnswerTokens:  maxAnswerTokens,
		temperature:      temperature,
	}
}

// Synthesize generates an answer to question grounded in the ranked chunks.
// Generation failures yield the fallback answer with zero tokens rather than
// an error; the only error returned is context cancellation, so the caller
// can distinguish a timed-out query from an upstream hiccup.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, chunks []models.ScoredChunk) (*SynthesisResult, error) {
	contextBlock, usedIDs := s.buildContext(chunks)
	user := fmt.Sprintf("%s\n\nQuestion: %s", contextBlock, question)

	completion, err := s.generator.CreateCompletion(ctx, systemPreamble, user, s.maxAnswerTokens, s.temperature)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Printf("answer generation failed: %v", err)
		return &SynthesisResult{
			Answer:     FallbackAnswer,
			TokensUsed: 0,
			ModelUsed:  s.generator.ChatModel(),
			ChunksUsed: usedIDs,
		}, nil
	}

	return &SynthesisResult{
		Answer:     completion.Answer,
		TokensUsed: completion.TokensUsed,
		ModelUsed:  s.generator.ChatModel(),
		ChunksUsed: usedIDs,
	}, nil
}

// buildContext concatenates chunk contents in ranked order, each labeled with
// its source, stopping before the estimated token count would exceed the
// budget. Lower-ranked chunks are dropped first, never earlier ones.
func (s *Synthesizer) buildContext(chunks []models.ScoredChunk) (string, []string) {
	var parts []string
	var usedIDs []string
	totalTokens := 0.0

	for _, scored := range chunks {
		chunk := scored.Chunk
		chunkTokens := float64(len(strings.Fields(chunk.Content))) * tokensPerWord
		if totalTokens+chunkTokens > float64(s.maxContextTokens) {
			break
		}

		label := fmt.Sprintf("[Source: %s", chunk.SourceType)
		if chunk.SourceTitle != "" {
			label += " - " + chunk.SourceTitle
		}
		label += "]"

		parts = append(parts, label+"\n"+chunk.Content+"\n")
		usedIDs = append(usedIDs, chunk.ChunkID)
		totalTokens += chunkTokens
	}

	contextBlock := fmt.Sprintf(`Based on the following information about the developer's portfolio:

%s

Please answer the following question using only the information provided above. If the information doesn't contain enough detail to answer the question, please say so.`, strings.Join(parts, "\n"))

	return contextBlock, usedIDs
}
