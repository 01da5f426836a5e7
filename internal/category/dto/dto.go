package dto

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Scope selects whose categories an operation touches. An empty StoreID is
// the global scope, which only admins may change.
type Scope struct {
	StoreID string
}

func (s Scope) IsGlobal() bool { return s.StoreID == "" }

func (s Scope) StoreIDPtr() *string {
	if s.StoreID == "" {
		return nil
	}
	id := s.StoreID
	return &id
}
