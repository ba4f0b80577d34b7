package errors

// ErrorCodeInfo contains metadata about an error code.
type ErrorCodeInfo struct {
	Code            ErrorCode
	Description     string
	SuggestedAction string
}

// ErrorCodeRegistry maps error codes to their metadata.
var ErrorCodeRegistry = map[ErrorCode]ErrorCodeInfo{
	ErrInputNotFound: {
		Code:            ErrInputNotFound,
		Description:     "Input document does not exist",
		SuggestedAction: "Check the path passed to chatview convert",
	},
	ErrUnreadableDocument: {
		Code:            ErrUnreadableDocument,
		Description:     "Input is not a readable DOCX container",
		SuggestedAction: "Re-export the transcript as .docx, or inspect it: chatview inspect <file>",
	},
	ErrWriteFailed: {
		Code:            ErrWriteFailed,
		Description:     "Output or icon file could not be written",
		SuggestedAction: "Check permissions and free space for the output directory",
	},
	ErrEncodeFailed: {
		Code:            ErrEncodeFailed,
		Description:     "Transcript could not be encoded in the requested format",
		SuggestedAction: "Retry with --format chatview",
	},
	ErrInvalidConfig: {
		Code:            ErrInvalidConfig,
		Description:     "Configuration value is not valid",
		SuggestedAction: "Review settings: chatview config show",
	},
	ErrProcessingError: {
		Code:            ErrProcessingError,
		Description:     "Unclassified conversion error",
		SuggestedAction: "Re-run with --debug for details",
	},
}

// GetSuggestedAction returns the suggested action for the given error code.
func GetSuggestedAction(code ErrorCode) string {
	if info, ok := ErrorCodeRegistry[code]; ok {
		return info.SuggestedAction
	}
	return "Re-run with --debug for details"
}

// GetDescription returns the human-readable description for the given error code.
func GetDescription(code ErrorCode) string {
	if info, ok := ErrorCodeRegistry[code]; ok {
		return info.Description
	}
	return "Unknown error"
}
