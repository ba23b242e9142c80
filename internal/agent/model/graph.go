package model

// TurnState stores per-invocation state for the Eino Graph.
// Concurrency model:
//   - Registered as Graph Local State via compose.WithGenLocalState.
//   - Read and written only inside state handlers or compose.ProcessState.
//   - Eino serializes access inside those handlers, so no mutex is needed.
type TurnState struct {
	ConversationID string
	Session        *SessionState
	Added          []CartLineItem // lines appended by the add handler during this turn
}

// QueryInput represents the input for one user turn.
type QueryInput struct {
	ConversationID string `json:"conversation_id"`
	Query          string `json:"query"`
}
