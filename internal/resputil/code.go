package resputil

type ErrorCode int

const (
	OK ErrorCode = 0

	// General
	InvalidRequest ErrorCode = 40001

	// Input failed a lifecycle invariant (caught before any write)
	ValidationFailed ErrorCode = 40002

	// Token
	TokenExpired ErrorCode = 40101
	TokenInvalid ErrorCode = 40102

	// Login
	InvalidCredentials ErrorCode = 40106
	OTPInvalid         ErrorCode = 40107

	// User is not allowed to access the resource
	UserNotAllowed ErrorCode = 40301

	// Requested row does not exist
	NotFound ErrorCode = 40401

	// Object store upload/remove failure
	StorageFailed ErrorCode = 50001

	// Indicates laziness of the developer
	// Frontend will directly print the message without any translation
	NotSpecified ErrorCode = 99999
)
