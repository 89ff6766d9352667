package engine

import "github.com/tailored-agentic-units/aria/observability"

// Engine event types emitted during a turn.
const (
	EventTurnStart        observability.EventType = "engine.turn.start"
	EventTurnSkip         observability.EventType = "engine.turn.skip"
	EventGuardrailBlock   observability.EventType = "engine.guardrail.block"
	EventIntents          observability.EventType = "engine.intents"
	EventCompletionFailed observability.EventType = "engine.completion.failed"
	EventResponse         observability.EventType = "engine.response"
	EventReset            observability.EventType = "engine.reset"
)
