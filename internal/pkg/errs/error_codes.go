/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request or command parameter validation failed.
	ErrInvalidParams = 1001

	// ErrInvalidJSONFormat indicates that an inbound frame was not valid JSON.
	ErrInvalidJSONFormat = 1002

	// ErrUnsupportedCommand indicates that the client sent a command type the server does not handle.
	ErrUnsupportedCommand = 1003
)

// 2xxx: Room and Content Business Logic Errors
const (
	// ErrRoomNotFound indicates that the targeted room does not exist.
	// The usual cause is the room expiring between a room-list snapshot and the command.
	ErrRoomNotFound = 2101

	// ErrRoomNameEmpty indicates that a room creation request carried a name that is empty after trimming.
	ErrRoomNameEmpty = 2102

	// ErrDurationOutOfRange indicates that the requested room lifetime is outside the accepted bounds.
	ErrDurationOutOfRange = 2103

	// ErrMessageEmpty indicates that a chat message had no content after trimming.
	ErrMessageEmpty = 2201
)

// 3xxx: User and Session Errors
const (
	// ErrDisplayNameTooShort indicates that the requested display name is below the minimum length.
	ErrDisplayNameTooShort = 3001

	// ErrUnknownConnection indicates an operation referenced a session that was never
	// registered or has already disconnected. Defensive; handled as a no-op server-side.
	ErrUnknownConnection = 3002
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
