package service

// Caller identifies who is performing a mutating operation. It is passed
// explicitly into services instead of being read from ambient request state.
type Caller struct {
	ID    string
	Name  string
	Email string
	Role  string
}
