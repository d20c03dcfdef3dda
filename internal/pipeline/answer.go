package pipeline

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/qaforge/qaforge/internal/vectorstore"
	"github.com/qaforge/qaforge/models"
	"github.com/qaforge/qaforge/provider"
)

const (
	answerTopK       = 5
	contextTopN      = 3
	answerMaxTokens  = 500
	answerTemp       = 0.7
	fallbackGeneric  = "I apologize, but I encountered an error processing your request."
	fallbackModel    = "I'm having trouble accessing the AI model right now. Please try again later."
	fallbackGenerate = "I encountered an error while generating a response."
)

const groundingPrompt = `Based on the following context, please answer the question. If the context doesn't contain relevant information, say so clearly.

Context:
%s

Question: %s

Answer:`

// Answer embeds the query, retrieves the closest chunks, and asks the model
// to answer strictly from that context. Retrieval or generation failures
// degrade to a fallback answer; this method never fails hard. Retrieval
// metadata survives a generation failure since retrieval succeeded on its own.
func (p *Pipeline) Answer(ctx context.Context, query string) models.QueryResult {
	start := time.Now()
	defer func() { queryDuration.Observe(time.Since(start).Seconds()) }()

	matches, err := p.retrieve(ctx, query, answerTopK)
	if err != nil {
		p.logger.Printf("error processing query: %v", err)
		queriesServed.WithLabelValues("chat", "retrieval_error").Inc()
		return models.QueryResult{
			Answer:   fallbackGeneric,
			Sources:  []string{},
			Accuracy: 0.0,
		}
	}

	result := models.QueryResult{
		Sources:     sourceNames(matches),
		ContextUsed: len(matches) > 0,
		Accuracy:    confidence(matches),
	}

	contextText := joinTexts(matches, contextTopN)
	prompt := fmt.Sprintf(groundingPrompt, contextText, query)

	answer, err := p.provider.Completion(ctx, []models.Message{
		{Role: "user", Content: prompt},
	}, answerMaxTokens, answerTemp)
	switch {
	case err == nil:
		result.Answer = answer
		queriesServed.WithLabelValues("chat", "ok").Inc()
	case provider.IsStatusError(err):
		p.logger.Printf("generation returned non-success status: %v", err)
		result.Answer = fallbackModel
		queriesServed.WithLabelValues("chat", "model_error").Inc()
	default:
		p.logger.Printf("error generating response: %v", err)
		result.Answer = fallbackGenerate
		queriesServed.WithLabelValues("chat", "model_error").Inc()
	}
	return result
}

// retrieve embeds the query text and returns the k nearest matches.
func (p *Pipeline) retrieve(ctx context.Context, query string, k int) ([]vectorstore.Match, error) {
	vecs, err := p.provider.CreateEmbedding(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("embedding query: empty response")
	}
	matches, err := p.store.Query(ctx, vecs[0], k)
	if err != nil {
		return nil, fmt.Errorf("querying vector store: %w", err)
	}
	return matches, nil
}

// confidence derives the accuracy percentage from the single closest match:
// max(0, 1-distance)*100, one decimal, 0.0 when nothing was retrieved.
func confidence(matches []vectorstore.Match) float64 {
	if len(matches) == 0 {
		return 0.0
	}
	best := matches[0].Distance
	for _, m := range matches[1:] {
		if m.Distance < best {
			best = m.Distance
		}
	}
	score := (1 - best) * 100
	if score < 0 {
		score = 0
	}
	return math.Round(score*10) / 10
}

// sourceNames returns the de-duplicated contributing document names.
func sourceNames(matches []vectorstore.Match) []string {
	seen := make(map[string]bool, len(matches))
	names := []string{}
	for _, m := range matches {
		if m.Metadata.Source == "" || seen[m.Metadata.Source] {
			continue
		}
		seen[m.Metadata.Source] = true
		names = append(names, m.Metadata.Source)
	}
	return names
}

// joinTexts concatenates the top n chunk texts separated by a blank line.
func joinTexts(matches []vectorstore.Match, n int) string {
	if n > len(matches) {
		n = len(matches)
	}
	texts := make([]string, 0, n)
	for _, m := range matches[:n] {
		texts = append(texts, m.Text)
	}
	return strings.Join(texts, "\n\n")
}
