package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ErrExtraction signals that the completion reply could not be turned into a
// complete expense candidate. Resubmitting the text is the only retry.
var ErrExtraction = errors.New("could not extract complete expense information")

// ParsedExpense is the raw triple extracted from free text. The amount is kept
// as the number the model returned; rounding to minor units happens on create.
type ParsedExpense struct {
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

type Extractor struct {
	client Client
}

func NewExtractor(client Client) *Extractor {
	return &Extractor{client: client}
}

const extractPrompt = `You are an expense parser for Indian users. Extract amount (in INR), category, and description from natural language input.

Categories: Food, Transport, Entertainment, Shopping, Bills, Health, Other

Rules:
- Be flexible with casual language and typos
- If category unclear, default to most likely option
- For transport, recognize: uber, ola, auto, metro, bus, petrol
- For food, recognize: lunch, dinner, breakfast, coffee, zomato, swiggy, chai, tea
- Extract brand names when mentioned

Return ONLY valid JSON in this exact format:
{
  "amount": number,
  "category": "Food|Transport|Entertainment|Shopping|Bills|Health|Other",
  "description": "string (capitalize first letter)"
}

Examples:
Input: 'lunch 250' → {"amount": 250, "category": "Food", "description": "Lunch"}
Input: 'ola to office 180' → {"amount": 180, "category": "Transport", "description": "Ola ride"}
Input: 'paid electricity bill 1500' → {"amount": 1500, "category": "Bills", "description": "Electricity bill"}
Input: 'bought headphones 2999' → {"amount": 2999, "category": "Shopping", "description": "Headphones"}

Now parse this:
Input: '%s'`

// Extract sends the text through the completion client once (no retries) and
// parses the reply into an expense candidate.
func (e *Extractor) Extract(ctx context.Context, text string) (ParsedExpense, error) {
	content, err := e.client.Complete(ctx, fmt.Sprintf(extractPrompt, text))
	if err != nil {
		return ParsedExpense{}, fmt.Errorf("completion request failed: %w", err)
	}

	parsed, err := parseCompletion(content)
	if err != nil {
		log.Errorf("failed to parse completion reply: %v (reply: %q)", err, content)
		return ParsedExpense{}, err
	}
	return parsed, nil
}

func parseCompletion(content string) (ParsedExpense, error) {
	var parsed ParsedExpense

	// The model usually returns bare JSON; tolerate surrounding prose by
	// falling back to the first balanced top-level object.
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &parsed); err != nil {
		object := firstJSONObject(content)
		if object == "" {
			return ParsedExpense{}, ErrExtraction
		}
		if err := json.Unmarshal([]byte(object), &parsed); err != nil {
			return ParsedExpense{}, ErrExtraction
		}
	}

	if parsed.Amount <= 0 || parsed.Category == "" || parsed.Description == "" {
		return ParsedExpense{}, ErrExtraction
	}
	return parsed, nil
}

// firstJSONObject returns the first balanced top-level {...} in s, or "".
// Braces inside JSON strings are ignored.
func firstJSONObject(s string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}
