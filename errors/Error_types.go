package errors

var (
	ErrUnknown            = New(ERR_UNKNOWN, "unknown error")
	ErrInvalidArgument    = New(ERR_INVALID_ARGUMENT, "invalid argument")
	ErrNotFound           = New(ERR_NOT_FOUND, "not found")
	ErrProcessing         = New(ERR_PROCESSING, "error processing")
	ErrConfiguration      = New(ERR_CONFIGURATION, "configuration error")
	ErrContextCanceled    = New(ERR_CONTEXT_CANCELED, "context canceled")
	ErrServiceUnavailable = New(ERR_SERVICE_UNAVAILABLE, "service unavailable")
	ErrError              = New(ERR_ERROR, "generic error")
	ErrStorageError       = New(ERR_STORAGE_ERROR, "storage error")
	ErrBlobExists         = New(ERR_BLOB_EXISTS, "blob already exists")
	ErrBlobNotFound       = New(ERR_BLOB_NOT_FOUND, "blob not found")
	ErrTxInvalid          = New(ERR_TX_INVALID, "tx invalid")
	ErrMalformedEncoding  = New(ERR_MALFORMED_ENCODING, "malformed encoding")
	ErrOutputOutOfRange   = New(ERR_OUTPUT_OUT_OF_RANGE, "output index out of range")
	ErrUnsupportedScript  = New(ERR_UNSUPPORTED_SCRIPT, "unsupported script")
	ErrScriptMismatch     = New(ERR_SCRIPT_MISMATCH, "script mismatch")
	ErrInvalidSignature   = New(ERR_INVALID_SIGNATURE, "invalid signature")
	ErrBlockInvalid       = New(ERR_BLOCK_INVALID, "block invalid")
)

// errors initialization functions

func NewUnknownError(message string, params ...interface{}) error {
	return New(ERR_UNKNOWN, message, params...)
}
func NewInvalidArgumentError(message string, params ...interface{}) error {
	return New(ERR_INVALID_ARGUMENT, message, params...)
}
func NewNotFoundError(message string, params ...interface{}) error {
	return New(ERR_NOT_FOUND, message, params...)
}
func NewProcessingError(message string, params ...interface{}) error {
	return New(ERR_PROCESSING, message, params...)
}
func NewConfigurationError(message string, params ...interface{}) error {
	return New(ERR_CONFIGURATION, message, params...)
}
func NewServiceUnavailableError(message string, params ...interface{}) error {
	return New(ERR_SERVICE_UNAVAILABLE, message, params...)
}
func NewContextCanceledError(message string, params ...interface{}) error {
	return New(ERR_CONTEXT_CANCELED, message, params...)
}
func NewError(message string, params ...interface{}) error {
	return New(ERR_ERROR, message, params...)
}
func NewStorageError(message string, params ...interface{}) error {
	return New(ERR_STORAGE_ERROR, message, params...)
}
func NewBlobAlreadyExistsError(message string, params ...interface{}) error {
	return New(ERR_BLOB_EXISTS, message, params...)
}
func NewBlobNotFoundError(message string, params ...interface{}) error {
	return New(ERR_BLOB_NOT_FOUND, message, params...)
}
func NewTxInvalidError(message string, params ...interface{}) error {
	return New(ERR_TX_INVALID, message, params...)
}
func NewMalformedEncodingError(message string, params ...interface{}) error {
	return New(ERR_MALFORMED_ENCODING, message, params...)
}
func NewOutputOutOfRangeError(message string, params ...interface{}) error {
	return New(ERR_OUTPUT_OUT_OF_RANGE, message, params...)
}
func NewUnsupportedScriptError(message string, params ...interface{}) error {
	return New(ERR_UNSUPPORTED_SCRIPT, message, params...)
}
func NewScriptMismatchError(message string, params ...interface{}) error {
	return New(ERR_SCRIPT_MISMATCH, message, params...)
}
func NewInvalidSignatureError(message string, params ...interface{}) error {
	return New(ERR_INVALID_SIGNATURE, message, params...)
}
func NewBlockInvalidError(message string, params ...interface{}) error {
	return New(ERR_BLOCK_INVALID, message, params...)
}
