package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type clientStub struct {
	reply      string
	err        error
	lastPrompt string
}

func (c *clientStub) Complete(ctx context.Context, prompt string) (string, error) {
	c.lastPrompt = prompt
	return c.reply, c.err
}

func TestExtractor_Extract(t *testing.T) {
	// given
	client := &clientStub{reply: `{"amount": 250, "category": "Food", "description": "Lunch"}`}
	extractor := NewExtractor(client)

	// when
	parsed, err := extractor.Extract(context.Background(), "lunch 250")

	// then
	assert.NoError(t, err)
	assert.Equal(t, ParsedExpense{Amount: 250, Category: "Food", Description: "Lunch"}, parsed)
	assert.Contains(t, client.lastPrompt, "Input: 'lunch 250'")
}

func TestExtractor_Extract_ReplyWrappedInProse(t *testing.T) {
	// given
	client := &clientStub{reply: "Sure, here is the parsed expense:\n" +
		`{"amount": 180, "category": "Transport", "description": "Ola ride"}` +
		"\nLet me know if you need anything else."}
	extractor := NewExtractor(client)

	// when
	parsed, err := extractor.Extract(context.Background(), "ola to office 180")

	// then
	assert.NoError(t, err)
	assert.Equal(t, ParsedExpense{Amount: 180, Category: "Transport", Description: "Ola ride"}, parsed)
}

func TestExtractor_Extract_ClientFailure(t *testing.T) {
	// given
	client := &clientStub{err: errors.New("upstream unavailable")}
	extractor := NewExtractor(client)

	// when
	_, err := extractor.Extract(context.Background(), "lunch 250")

	// then
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrExtraction)
}

func TestParseCompletion(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		want    ParsedExpense
		wantErr bool
	}{
		{
			name:  "bare JSON",
			reply: `{"amount": 99.5, "category": "Health", "description": "Medicine"}`,
			want:  ParsedExpense{Amount: 99.5, Category: "Health", Description: "Medicine"},
		},
		{
			name:  "surrounding whitespace",
			reply: "\n  {\"amount\": 40, \"category\": \"Food\", \"description\": \"Chai\"}  \n",
			want:  ParsedExpense{Amount: 40, Category: "Food", Description: "Chai"},
		},
		{
			name:  "braces inside string values",
			reply: `reply: {"amount": 500, "category": "Shopping", "description": "Mug with {smiley}"}`,
			want:  ParsedExpense{Amount: 500, Category: "Shopping", Description: "Mug with {smiley}"},
		},
		{
			name:    "no JSON at all",
			reply:   "I could not find an expense in that text.",
			wantErr: true,
		},
		{
			name:    "unbalanced object",
			reply:   `{"amount": 250, "category": "Food"`,
			wantErr: true,
		},
		{
			name:    "missing description",
			reply:   `{"amount": 250, "category": "Food", "description": ""}`,
			wantErr: true,
		},
		{
			name:    "non-positive amount",
			reply:   `{"amount": 0, "category": "Food", "description": "Lunch"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := parseCompletion(tt.reply)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrExtraction)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, parsed)
		})
	}
}

func TestFirstJSONObject_NestedObject(t *testing.T) {
	object := firstJSONObject(`noise {"outer": {"inner": 1}} trailing {"second": 2}`)

	assert.Equal(t, `{"outer": {"inner": 1}}`, object)
}
