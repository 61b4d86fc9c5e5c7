package fielddetector

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// DetectionKind selects what the detection service looks for.
type DetectionKind int

const (
	// AllFormFields detects every form field and label (POST /detect).
	AllFormFields DetectionKind = iota
	// ErrorMessagesAndFields detects error messages and fields in error (POST /detectError).
	ErrorMessagesAndFields
)

func (k DetectionKind) String() string {
	if k == ErrorMessagesAndFields {
		return "error_messages_and_fields"
	}
	return "all_form_fields"
}

func (k DetectionKind) endpoint() string {
	if k == ErrorMessagesAndFields {
		return "/detectError"
	}
	return "/detect"
}

// Detection holds what the service found on one picture.
type Detection struct {
	Fields []Field `json:"fields"`
	Labels []Label `json:"labels"`
}

//go:embed detection.schema.json
var detectionSchemaJSON []byte

var (
	detectionSchema     *jsonschema.Schema
	detectionSchemaOnce sync.Once
	detectionSchemaErr  error
)

func compileDetectionSchema() (*jsonschema.Schema, error) {
	detectionSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(detectionSchemaJSON))
		if err != nil {
			detectionSchemaErr = fmt.Errorf("unmarshal detection schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("detection.schema.json", doc); err != nil {
			detectionSchemaErr = fmt.Errorf("add detection schema resource: %w", err)
			return
		}
		detectionSchema, err = compiler.Compile("detection.schema.json")
		if err != nil {
			detectionSchemaErr = fmt.Errorf("compile detection schema: %w", err)
		}
	})
	return detectionSchema, detectionSchemaErr
}

// wire types mirror the service JSON, where a field is a flat object holding
// both its box and its class.
type wireLabel struct {
	Top    int     `json:"top"`
	Bottom int     `json:"bottom"`
	Left   int     `json:"left"`
	Right  int     `json:"right"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Text   *string `json:"text"`
}

type wireField struct {
	wireLabel
	ClassName *string    `json:"class_name"`
	ClassID   *int       `json:"class_id"`
	WithLabel *bool      `json:"with_label"`
	Related   *wireField `json:"related_field"`
}

type wireEntry struct {
	Fields []wireField `json:"fields"`
	Labels []wireLabel `json:"labels"`
}

func (w wireLabel) label() Label {
	l := Label{
		Top:    w.Top,
		Bottom: w.Bottom,
		Left:   w.Left,
		Right:  w.Right,
		Width:  w.Width,
		Height: w.Height,
	}
	if w.Text != nil {
		l.Text = *w.Text
	}
	return l
}

func (w wireField) field(depth int) Field {
	f := Field{Label: w.label()}
	if w.ClassName != nil {
		f.ClassName = *w.ClassName
	}
	if w.ClassID != nil {
		f.ClassID = *w.ClassID
	}
	if w.WithLabel != nil {
		f.WithLabel = *w.WithLabel
	}
	if w.Related != nil && depth < maxRelatedDepth {
		related := w.Related.field(depth + 1)
		f.Related = &related
	}
	return f
}

// ParseDetectionEntry validates and decodes the per-image part of a reply.
// A missing fields or labels key yields an empty list.
func ParseDetectionEntry(imageName string, entry []byte) (Detection, error) {
	sch, err := compileDetectionSchema()
	if err != nil {
		return Detection{}, err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(entry))
	if err != nil {
		return Detection{}, &MalformedResponseError{Image: imageName, Err: err}
	}
	if err := sch.Validate(inst); err != nil {
		return Detection{}, &MalformedResponseError{Image: imageName, Err: err}
	}

	var w wireEntry
	if err := json.Unmarshal(entry, &w); err != nil {
		return Detection{}, &MalformedResponseError{Image: imageName, Err: err}
	}

	d := Detection{
		Fields: make([]Field, 0, len(w.Fields)),
		Labels: make([]Label, 0, len(w.Labels)),
	}
	for _, f := range w.Fields {
		d.Fields = append(d.Fields, f.field(0))
	}
	for _, l := range w.Labels {
		d.Labels = append(d.Labels, l.label())
	}
	return d, nil
}

// parseDetectionResponse extracts the entry keyed by imageName from a 200 reply.
func parseDetectionResponse(imageName string, body []byte) (Detection, error) {
	var reply map[string]json.RawMessage
	if err := json.Unmarshal(body, &reply); err != nil {
		return Detection{}, &MalformedResponseError{Image: imageName, Err: err}
	}

	entry, ok := reply[imageName]
	if !ok || isJSONNull(entry) {
		return Detection{}, &DetectorError{
			Image:   imageName,
			Message: "Field detector did not return any information: " + replyError(reply),
		}
	}
	return ParseDetectionEntry(imageName, entry)
}

// replyError returns the top-level "error" value, "null" when absent like the
// service prints it.
func replyError(reply map[string]json.RawMessage) string {
	raw, ok := reply["error"]
	if !ok || isJSONNull(raw) {
		return "null"
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return string(raw)
	}
	return s
}

func isJSONNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null"
}
