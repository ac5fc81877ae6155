package submission

import (
	"fmt"
	"strings"
)

// MaxFileSize is the upload ceiling. Files above this are rejected locally,
// before any network activity.
const MaxFileSize = 10 << 20 // 10 MiB

// defaultMediaTypes are the document types accepted out of the box.
// The backend may advertise a superset; see AcceptedTypes.
var defaultMediaTypes = []string{
	"application/pdf",
	"text/plain",
	"text/csv",
}

// Submission is one user-selected document plus the instruction that steers
// question generation. Created on selection, replaced on re-selection,
// consumed by a successful dispatch.
type Submission struct {
	// FileName is the declared name of the file, e.g. "notes.pdf".
	FileName string

	// MediaType is the declared media type, e.g. "application/pdf".
	MediaType string

	// Data is the raw file content.
	Data []byte

	// Instruction is the user's free-text instruction for the generator,
	// e.g. "summarize" or "focus on chapter 3". Must be non-empty.
	Instruction string

	// NumObjective and NumSubjective request how many questions of each
	// kind the generator should produce. Zero means the service default.
	NumObjective  int
	NumSubjective int

	// DifficultyLevel is the level the questions are generated for.
	DifficultyLevel int
}

// Size returns the file size in bytes.
func (s *Submission) Size() int64 {
	return int64(len(s.Data))
}

// ValidationReason classifies why a submission was rejected.
type ValidationReason string

const (
	ReasonTooLarge           ValidationReason = "too_large"
	ReasonUnsupportedType    ValidationReason = "unsupported_type"
	ReasonMissingInstruction ValidationReason = "missing_instruction"
)

// ValidationError reports a locally detected problem with a submission.
// Validation never touches the network.
type ValidationError struct {
	Reason  ValidationReason
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validator checks submissions against the size and media-type rules.
// The zero value accepts the default media types.
type Validator struct {
	extraTypes []string
}

// NewValidator creates a Validator. extraTypes extends the accepted media
// types with ones the backend advertises beyond the defaults.
func NewValidator(extraTypes ...string) *Validator {
	return &Validator{extraTypes: extraTypes}
}

// Validate checks the submission and returns a *ValidationError describing
// the first rule it violates, or nil if the submission is dispatchable.
func (v *Validator) Validate(s *Submission) error {
	if s.Size() > MaxFileSize {
		return &ValidationError{
			Reason: ReasonTooLarge,
			Message: fmt.Sprintf("file %q is %d bytes, limit is %d",
				s.FileName, s.Size(), MaxFileSize),
		}
	}

	if !v.accepts(s.MediaType) {
		return &ValidationError{
			Reason:  ReasonUnsupportedType,
			Message: fmt.Sprintf("unsupported file type %q (want PDF, TXT or CSV)", s.MediaType),
		}
	}

	if strings.TrimSpace(s.Instruction) == "" {
		return &ValidationError{
			Reason:  ReasonMissingInstruction,
			Message: "instruction text is required",
		}
	}

	return nil
}

func (v *Validator) accepts(mediaType string) bool {
	for _, t := range defaultMediaTypes {
		if t == mediaType {
			return true
		}
	}
	for _, t := range v.extraTypes {
		if t == mediaType {
			return true
		}
	}
	return false
}
