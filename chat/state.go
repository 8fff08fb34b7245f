package chat

// TurnState tracks an answer turn through the orchestration steps.
type TurnState int

const (
	// StateReceived means the user message is validated and persisted.
	StateReceived TurnState = iota + 1
	// StateQueryEmbedded means the retrieval vector exists.
	StateQueryEmbedded
	// StateRetrieved means the tenant index has been queried.
	StateRetrieved
	// StateAnswerGenerated means the model produced an answer.
	StateAnswerGenerated
	// StateDone is the terminal success state.
	StateDone
	// StateFailed is the terminal failure state.
	StateFailed
)

// String returns the name form of the state.
func (s TurnState) String() string {
	switch s {
	case StateReceived:
		return "received"
	case StateQueryEmbedded:
		return "query_embedded"
	case StateRetrieved:
		return "retrieved"
	case StateAnswerGenerated:
		return "answer_generated"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
