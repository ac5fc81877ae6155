package submission

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"strconv"
)

// Payload is a serialized multipart request body ready for dispatch.
type Payload struct {
	// ContentType is the multipart content type including the boundary.
	ContentType string

	// Body is the encoded form data.
	Body []byte
}

// BuildPayload serializes a submission into a multipart form carrying
// exactly one file field plus the instruction and generation parameters.
// Multiple files are never batched: one document in, one question set out.
func BuildPayload(s *Submission) (*Payload, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", s.FileName)
	if err != nil {
		return nil, fmt.Errorf("create file field: %w", err)
	}
	if _, err := part.Write(s.Data); err != nil {
		return nil, fmt.Errorf("write file field: %w", err)
	}

	fields := map[string]string{
		"prompt": s.Instruction,
	}
	if s.NumObjective > 0 {
		fields["num_mcq"] = strconv.Itoa(s.NumObjective)
	}
	if s.NumSubjective > 0 {
		fields["num_subjective"] = strconv.Itoa(s.NumSubjective)
	}
	if s.DifficultyLevel > 0 {
		fields["difficulty_level"] = strconv.Itoa(s.DifficultyLevel)
	}

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("write field %s: %w", name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	return &Payload{
		ContentType: w.FormDataContentType(),
		Body:        buf.Bytes(),
	}, nil
}
