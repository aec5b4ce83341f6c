/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:      {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrInvalidJSONFormat:  {Code: ErrInvalidJSONFormat, Message: "Unsupported message format."},
	ErrUnsupportedCommand: {Code: ErrUnsupportedCommand, Message: "Unsupported command."},

	// 2xxx: Room and Content Business Logic Errors
	ErrRoomNotFound:       {Code: ErrRoomNotFound, Message: "Room not found!"},
	ErrRoomNameEmpty:      {Code: ErrRoomNameEmpty, Message: "Room name cannot be empty."},
	ErrDurationOutOfRange: {Code: ErrDurationOutOfRange, Message: "Room duration must be between %d and %d minutes."},
	ErrMessageEmpty:       {Code: ErrMessageEmpty, Message: "Message cannot be empty."},

	// 3xxx: User and Session Errors
	ErrDisplayNameTooShort: {Code: ErrDisplayNameTooShort, Message: "Username must be at least %d characters."},
	ErrUnknownConnection:   {Code: ErrUnknownConnection, Message: "Unknown session."},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
