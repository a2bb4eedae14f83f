// ABOUTME: Heuristic confidence scoring for synthesized answers
// ABOUTME: Weighted sum of chunk coverage, answer length, and token usage signals
package rag

import (
	"math"
	"strings"
)

// Confidence weights. The score is a heuristic quality signal, not a
// calibrated probability.
const (
	confidenceBase     = 0.5
	chunkCountWeight   = 0.3
	answerLengthWeight = 0.2
	tokenUsageWeight   = 0.2

	answerLengthNorm = 200
	tokenUsageNorm   = 300

	uncertaintyPenalty = 0.1
)

// uncertaintyPhrases lower confidence when present in the answer
var uncertaintyPhrases = []string{
	"not sure",
	"unclear",
	"don't know",
	"insufficient",
	"limited information",
}

// ScoreConfidence rates an answer in [0, 1] from chunk coverage, answer
// length, token usage, and hedging language, rounded to two decimals.
func ScoreConfidence(answer string, tokensUsed, chunkCount, maxChunks int) float64 {
	score := confidenceBase

	if maxChunks > 0 {
		score += math.Min(float64(chunkCount)/float64(maxChunks), 1.0) * chunkCountWeight
	}
	score += math.Min(float64(len(answer))/answerLengthNorm, 1.0) * answerLengthWeight
	score += math.Min(float64(tokensUsed)/tokenUsageNorm, 1.0) * tokenUsageWeight

	lower := strings.ToLower(answer)
	for _, phrase := range uncertaintyPhrases {
		if strings.Contains(lower, phrase) {
			score -= uncertaintyPenalty
			break
		}
	}

	score = math.Max(0.0, math.Min(1.0, score))
	return math.Round(score*100) / 100
}
