package state

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	SaveQueue(state QueueState)
	GetQueue() (*QueueState, error)
	Flush() error
	Close() error
}

// Verify implementations satisfy Interface at compile time.
var (
	_ Interface = (*Manager)(nil)
	_ Interface = (*Mock)(nil)
)
