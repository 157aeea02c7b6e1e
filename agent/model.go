package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/cogmesh/internal/util"
	"github.com/hupe1980/cogmesh/knowledge"
	"github.com/hupe1980/cogmesh/model"
)

// DefaultExtractionInstructions steer the model toward output the agent can
// index directly.
const DefaultExtractionInstructions = "You extract knowledge as short concept phrases. " +
	"Respond with one concept per line and nothing else."

// ModelAgentOptions configures a ModelAgent.
type ModelAgentOptions struct {
	// Instructions is the system-level guidance sent with every request.
	Instructions string
	// Prompt is a template rendered against {agent_id, tenant_id,
	// atom_count} before each generation.
	Prompt string
	// TruthValue is assigned to every extracted concept node.
	TruthValue knowledge.TruthValue
}

// ModelAgent consults a language model on every execution and records the
// completion as concept nodes in its tenant's store. One generation per
// Execute; each non-empty response line becomes one ConceptNode, deduped by
// name through the store's AddNode semantics.
type ModelAgent struct {
	BaseAgent

	model        model.Model
	instructions string
	prompt       string
	tv           knowledge.TruthValue
}

// NewModelAgent constructs a ModelAgent backed by the given model.
func NewModelAgent(
	id, tenantID string,
	registry *knowledge.Registry,
	m model.Model,
	optFns ...func(o *ModelAgentOptions),
) *ModelAgent {
	opts := ModelAgentOptions{
		Instructions: DefaultExtractionInstructions,
		Prompt:       "List concepts worth remembering for tenant {{.tenant_id}}. Known atoms: {{.atom_count}}.",
		TruthValue:   knowledge.TruthValue{Strength: 0.9, Confidence: 0.75},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &ModelAgent{
		BaseAgent:    NewBaseAgent(id, tenantID, registry),
		model:        m,
		instructions: opts.Instructions,
		prompt:       opts.Prompt,
		tv:           opts.TruthValue,
	}
}

// Execute renders the prompt, runs one generation and indexes every response
// line as a concept node.
func (a *ModelAgent) Execute(ctx context.Context) error {
	prompt, err := util.RenderTemplate(a.prompt, map[string]any{
		"agent_id":   a.ID(),
		"tenant_id":  a.TenantID(),
		"atom_count": a.Store().Size(),
	})
	if err != nil {
		return fmt.Errorf("render prompt: %w", err)
	}

	resp, err := a.model.Generate(ctx, model.Request{
		Instructions: a.instructions,
		Prompt:       prompt,
	})
	if err != nil {
		return fmt.Errorf("model generation: %w", err)
	}

	for _, line := range strings.Split(resp.Text, "\n") {
		concept := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*• "))
		if concept == "" {
			continue
		}
		a.Store().AddNode(knowledge.ConceptNode, concept).SetTruthValue(a.tv)
	}
	return nil
}
