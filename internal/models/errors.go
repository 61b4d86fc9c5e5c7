package models

// Error codes reported in the error_code field of failed command responses
// and in doctor diagnostics.
const (
	CodeNotFound            = "NOT_FOUND"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeReferenceChanged    = "REFERENCE_CHANGED"
	CodeReferenceMissing    = "REFERENCE_MISSING"
	CodeUnanalyzedFailure   = "UNANALYZED_FAILURE"
	CodeDetectorUnavailable = "DETECTOR_UNAVAILABLE"
	CodeDetectionFailed     = "DETECTION_FAILED"
	CodeMalformedDetection  = "MALFORMED_DETECTION"
)

// RecoverableError is an error a caller can act on: the code and context
// identify what failed and SuggestedAction says what to do about it.
// Store and detector errors implement it; the output envelope copies the
// three extra fields next to the message.
type RecoverableError interface {
	error
	ErrorCode() string
	Context() map[string]string
	SuggestedAction() string
}
