package draft

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/docpipe/ai"
	"github.com/poiesic/docpipe/ai/mock"
	"github.com/poiesic/docpipe/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const leaseTemplate = `LEASE AGREEMENT

Between {{landlord}} (the landlord) and {{tenant}} (the tenant),
for the premises at {{address}}, at a monthly rent of {{rent}}.`

func TestDrafter_FromTemplate(t *testing.T) {
	var prompt string
	generator := mock.NewGenerator("")
	generator.ModelName = "mock-strong"
	generator.GenerateFunc = func(ctx context.Context, messages []ai.Message, jsonMode bool) (string, error) {
		prompt = messages[len(messages)-1].Text
		return "LEASE AGREEMENT\n\nBetween Acme GmbH and Jordan Reyes, " +
			"for the premises at 14 Harbor Lane, at a monthly rent of 1200 EUR.", nil
	}

	drafter, err := New(generator)
	require.NoError(t, err)

	draft, err := drafter.FromTemplate(context.Background(), 1, TemplateRequest{
		Template: leaseTemplate,
		Placeholders: map[string]string{
			"landlord": "Acme GmbH",
			"tenant":   "Jordan Reyes",
			"address":  "14 Harbor Lane",
			"rent":     "1200 EUR",
		},
		Instructions: "keep it under one page",
	})
	require.NoError(t, err)

	// Placeholders are resolved before the model sees the document.
	assert.Contains(t, prompt, "Acme GmbH")
	assert.Contains(t, prompt, "1200 EUR")
	assert.NotContains(t, prompt, "{{landlord}}")
	assert.Contains(t, prompt, "keep it under one page")

	assert.Equal(t, "LEASE AGREEMENT", draft.Title)
	assert.Equal(t, "mock-strong", draft.Model)
	assert.False(t, draft.CreatedAt.IsZero())
}

func TestDrafter_UnknownPlaceholdersStayVisible(t *testing.T) {
	var prompt string
	generator := mock.NewGenerator("polished text")
	generator.GenerateFunc = func(ctx context.Context, messages []ai.Message, jsonMode bool) (string, error) {
		prompt = messages[len(messages)-1].Text
		return "polished text", nil
	}

	drafter, err := New(generator)
	require.NoError(t, err)

	_, err = drafter.FromTemplate(context.Background(), 1, TemplateRequest{
		Template:     leaseTemplate,
		Placeholders: map[string]string{"landlord": "Acme GmbH"},
	})
	require.NoError(t, err)

	// A marker without a value must survive for the reviewing attorney.
	assert.Contains(t, prompt, "{{tenant}}")
}

func TestDrafter_FromPrompt(t *testing.T) {
	var system, user string
	generator := mock.NewGenerator("")
	generator.GenerateFunc = func(ctx context.Context, messages []ai.Message, jsonMode bool) (string, error) {
		system = messages[0].Text
		user = messages[len(messages)-1].Text
		return "POWER OF ATTORNEY\n\nThe principal grants the agent authority to act.", nil
	}

	drafter, err := New(generator)
	require.NoError(t, err)

	draft, err := drafter.FromPrompt(context.Background(), 1, PromptRequest{
		DocumentType: "power of attorney",
		Prompt:       "authorize our counsel to represent the principal in the pending appeal",
		Facts: map[string]string{
			"principal": "Acme GmbH",
			"agent":     "Dana Albrecht",
		},
	})
	require.NoError(t, err)

	assert.Contains(t, system, "power of attorney")
	assert.Contains(t, user, "pending appeal")
	assert.Contains(t, user, "- agent: Dana Albrecht")
	assert.Contains(t, user, "- principal: Acme GmbH")
	assert.Equal(t, "power of attorney", draft.DocumentType)
	assert.Equal(t, "POWER OF ATTORNEY", draft.Title)
}

func TestDrafter_DefaultDocumentType(t *testing.T) {
	generator := mock.NewGenerator("NOTICE\n\nbody")
	drafter, err := New(generator)
	require.NoError(t, err)

	draft, err := drafter.FromPrompt(context.Background(), 1, PromptRequest{
		Prompt: "write a short notice",
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultDocumentType, draft.DocumentType)
}

func TestDrafter_TitleTruncated(t *testing.T) {
	long := strings.Repeat("word ", 60)
	generator := mock.NewGenerator(long + "\n\nbody")
	drafter, err := New(generator)
	require.NoError(t, err)

	draft, err := drafter.FromPrompt(context.Background(), 1, PromptRequest{Prompt: "anything"})
	require.NoError(t, err)
	assert.Len(t, []rune(draft.Title), maxTitleRunes)
}

func TestDrafter_EmptyDraftRejected(t *testing.T) {
	generator := mock.NewGenerator("   \n ")
	drafter, err := New(generator)
	require.NoError(t, err)

	_, err = drafter.FromPrompt(context.Background(), 1, PromptRequest{Prompt: "anything"})
	assert.ErrorIs(t, err, ErrEmptyDraft)
}

func TestDrafter_TransientFailure(t *testing.T) {
	generator := mock.NewGenerator("")
	generator.GenerateFunc = func(ctx context.Context, messages []ai.Message, jsonMode bool) (string, error) {
		return "", errors.New("429 too many requests")
	}
	drafter, err := New(generator)
	require.NoError(t, err)

	_, err = drafter.FromPrompt(context.Background(), 1, PromptRequest{Prompt: "anything"})
	require.Error(t, err)
	assert.Equal(t, core.KindTransient, core.KindOf(err))
}

func TestDrafter_SlowModelCallTimesOut(t *testing.T) {
	generator := mock.NewGenerator("")
	generator.GenerateFunc = func(ctx context.Context, messages []ai.Message, jsonMode bool) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}

	drafter, err := New(generator, WithCallTimeout(20*time.Millisecond))
	require.NoError(t, err)

	start := time.Now()
	_, err = drafter.FromPrompt(context.Background(), 1, PromptRequest{Prompt: "anything"})
	require.Error(t, err)
	assert.Equal(t, core.KindTransient, core.KindOf(err))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestDrafter_Validation(t *testing.T) {
	drafter, err := New(mock.NewGenerator("x"))
	require.NoError(t, err)

	_, err = drafter.FromPrompt(context.Background(), 0, PromptRequest{Prompt: "x"})
	assert.ErrorIs(t, err, core.ErrMissingTenant)

	_, err = drafter.FromPrompt(context.Background(), 1, PromptRequest{Prompt: "  "})
	assert.ErrorIs(t, err, ErrEmptyPrompt)

	_, err = drafter.FromTemplate(context.Background(), 1, TemplateRequest{Template: ""})
	assert.ErrorIs(t, err, ErrEmptyTemplate)

	_, err = New(nil)
	assert.ErrorIs(t, err, ErrGeneratorRequired)
}
