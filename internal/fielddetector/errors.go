package fielddetector

import (
	"errors"
	"strconv"

	"github.com/bhecquet/seleniumRobot-sub010/internal/models"
)

var (
	// ErrConfiguration matches errors raised when the detection service is
	// unusable (unreachable or unhealthy).
	ErrConfiguration = errors.New("field detector is not available")
	// ErrDetector matches errors reported while detecting one image.
	ErrDetector = errors.New("field detection failed")
	// ErrMalformedResponse matches detection replies that do not follow the wire format.
	ErrMalformedResponse = errors.New("malformed field detector response")
)

var (
	_ models.RecoverableError = (*ConfigurationError)(nil)
	_ models.RecoverableError = (*DetectorError)(nil)
	_ models.RecoverableError = (*MalformedResponseError)(nil)
)

// ConfigurationError is returned by NewConnector when /status does not answer 200.
type ConfigurationError struct {
	URL    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "Field detector is not available at " + e.URL + ": " + e.Reason
}
func (e *ConfigurationError) ErrorCode() string { return models.CodeDetectorUnavailable }
func (e *ConfigurationError) Context() map[string]string {
	return map[string]string{"url": e.URL, "reason": e.Reason}
}
func (e *ConfigurationError) SuggestedAction() string {
	return "check detector_url in config.yaml or SELENIUMROBOT_DETECTOR_URL, then run: seleniumrobot doctor"
}
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// DetectorError is a failure of one detection call. Message is the full
// user-facing text.
type DetectorError struct {
	Image   string
	Message string
	Status  int
}

func (e *DetectorError) Error() string    { return e.Message }
func (e *DetectorError) ErrorCode() string { return models.CodeDetectionFailed }
func (e *DetectorError) Context() map[string]string {
	ctx := map[string]string{"image": e.Image}
	if e.Status != 0 {
		ctx["status"] = strconv.Itoa(e.Status)
	}
	return ctx
}
func (e *DetectorError) SuggestedAction() string {
	return "check the image path and the detector logs"
}
func (e *DetectorError) Is(target error) bool { return target == ErrDetector }

// MalformedResponseError wraps a schema or decoding failure of a detection reply.
type MalformedResponseError struct {
	Image string
	Err   error
}

func (e *MalformedResponseError) Error() string {
	return "malformed field detector response for " + e.Image + ": " + e.Err.Error()
}
func (e *MalformedResponseError) Unwrap() error     { return e.Err }
func (e *MalformedResponseError) ErrorCode() string { return models.CodeMalformedDetection }
func (e *MalformedResponseError) Context() map[string]string {
	return map[string]string{"image": e.Image}
}
func (e *MalformedResponseError) SuggestedAction() string {
	return "check that the detector version matches the client"
}
func (e *MalformedResponseError) Is(target error) bool { return target == ErrMalformedResponse }
