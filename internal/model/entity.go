package model

// Entity is the capability a type needs to be stored in a repository: a comparable key.
// Value equality for change detection is provided by each type's Equal method.
type Entity[ID comparable] interface {
	Key() ID
}
