package generate

import (
	"errors"
	"fmt"
)

var (
	// ErrNoClients rejects a generation request with an empty client list
	// before any store access.
	ErrNoClients = errors.New("NoClients")

	// ErrStoreUnavailable wraps infrastructure failures (database or blob
	// store unreachable) as distinct from data errors.
	ErrStoreUnavailable = errors.New("StoreUnavailable")
)

// NotFoundError is a caller error naming the offending id: unknown
// template, client or entity.
type NotFoundError struct {
	Kind string // "Template", "Client", "Entity"
	ID   uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%sNotFound:%d", e.Kind, e.ID)
}

// UnresolvableKeyError means the template references a placeholder key no
// entity defines. A template/data mismatch, fatal for the whole batch under
// every policy.
type UnresolvableKeyError struct {
	Key string
}

func (e *UnresolvableKeyError) Error() string {
	return "UnresolvablePlaceholder:" + e.Key
}

// MissingValueError means an entity exists for the key but no value is
// bound for the client. Fatal only under PolicyFail.
type MissingValueError struct {
	Key      string
	ClientID uint
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("MissingValue:%s,%d", e.Key, e.ClientID)
}
