package ledger

// State is the lifecycle of one Transfer call.
type State string

const (
	StateIdle                 State = "IDLE"
	StateDestinationValidated State = "DESTINATION_VALIDATED"
	StateTransferInFlight     State = "TRANSFER_IN_FLIGHT"
	StateCompleted            State = "COMPLETED"
	StateFailed               State = "FAILED"
)

func (s State) IsFinal() bool {
	return s == StateCompleted || s == StateFailed
}

// CanTransitionTo reports whether next is a legal successor of s.
// TransferInFlight may fall back to Idle when the store reports a version
// conflict and the attempt restarts from a fresh read.
func (s State) CanTransitionTo(next State) bool {
	if s.IsFinal() {
		return false
	}
	if next == StateFailed {
		return true
	}
	switch s {
	case StateIdle:
		return next == StateDestinationValidated
	case StateDestinationValidated:
		return next == StateTransferInFlight
	case StateTransferInFlight:
		return next == StateCompleted || next == StateIdle
	}
	return false
}
