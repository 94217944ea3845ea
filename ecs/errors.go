package ecs

import "errors"

// Failure conditions surfaced by registration, mutation and query creation.
// Everything except ErrUnregisteredType is recoverable: the operation is
// logged and ignored, and prior valid state stands.
var (
	// ErrDuplicateRegistration is returned when a component type or system
	// name is registered twice. The original registration is retained.
	ErrDuplicateRegistration = errors.New("duplicate registration")

	// ErrUnregisteredType is returned by Entity.Attach for a component type
	// the world has never seen. This is a hard failure: it indicates a
	// setup-order bug, and the entity is left unmodified.
	ErrUnregisteredType = errors.New("component type not registered")

	// ErrComponentNotPresent is returned by Entity.Detach when the entity
	// does not hold the named kind.
	ErrComponentNotPresent = errors.New("component not present")

	// ErrDuplicateQuery is returned by World.CreateQuery when a query for
	// the same literal logic list is already cached.
	ErrDuplicateQuery = errors.New("query already exists")

	// ErrQueryCreationFailed wraps any other reason query compilation can
	// fail, such as a logic token naming an unregistered type.
	ErrQueryCreationFailed = errors.New("query creation failed")
)
