/*
Package chat contains the core logic for ephemeral chat rooms.

This file defines the ConnectionRegistry, which tracks the display name chosen by
each live connection. It is owned exclusively by the Gateway event loop, so no
locking is required.
*/
package chat

// DefaultDisplayName is the display name of a connection before setUsername,
// and the sentinel returned when resolving an unknown connection.
const DefaultDisplayName = "Anonymous"

// ConnectionRegistry maps connection session ids to display names. Display names
// carry no uniqueness constraint; duplicates across connections are permitted.
type ConnectionRegistry struct {
	names map[string]string
}

// NewConnectionRegistry returns an empty ConnectionRegistry.
func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{
		names: make(map[string]string),
	}
}

// Register records a new connection with the default display name.
// Registering an already-known id is a no-op, preserving any chosen name.
func (cr *ConnectionRegistry) Register(connectionID string) {
	if _, ok := cr.names[connectionID]; ok {
		return
	}
	cr.names[connectionID] = DefaultDisplayName
}

// SetDisplayName overwrites the display name of a registered connection.
// It returns false, changing nothing, when the connection is unknown.
func (cr *ConnectionRegistry) SetDisplayName(connectionID, name string) bool {
	if _, ok := cr.names[connectionID]; !ok {
		return false
	}
	cr.names[connectionID] = name
	return true
}

// Resolve returns the current display name of the connection, or
// DefaultDisplayName when the connection is unknown.
func (cr *ConnectionRegistry) Resolve(connectionID string) string {
	if name, ok := cr.names[connectionID]; ok {
		return name
	}
	return DefaultDisplayName
}

// Unregister removes the connection. Called exactly once, at disconnection.
func (cr *ConnectionRegistry) Unregister(connectionID string) {
	delete(cr.names, connectionID)
}

// Len returns the number of registered connections.
func (cr *ConnectionRegistry) Len() int {
	return len(cr.names)
}
