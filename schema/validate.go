package schema

import (
	"context"
	"mime/multipart"
)

// Responses maps field id to the captured value: a string for text-like
// kinds, a []string for checkboxes, a *multipart.FileHeader for file kinds
// still pending upload, a FileRef once uploaded.
type Responses map[string]any

// FileRef is what a file answer becomes after upload.
type FileRef struct {
	FileName string `json:"fileName"`
	FileUrl  string `json:"fileUrl"`
	FileSize int64  `json:"fileSize"`
	FileType string `json:"fileType"`
	PublicID string `json:"publicId,omitempty"`
}

// Validate checks required input fields against the responses and returns
// the labels of the ones that fail, in schema order. Content kinds are
// skipped no matter what their required flag says. This is the single
// place required-ness is enforced.
func (s Schema) Validate(resp Responses) (missing []string) {
	for _, f := range s {
		if !f.Required || f.Kind.IsContent() {
			continue
		}

		v := resp[f.ID]
		switch f.Kind {
		case Checkbox:
			if !hasAnyChoice(v) {
				missing = append(missing, f.Label)
			}
		case File:
			if !hasFile(v) {
				missing = append(missing, f.Label)
			}
		default:
			str, ok := v.(string)
			if !ok || str == "" {
				missing = append(missing, f.Label)
			}
		}
	}
	return
}

func hasAnyChoice(v any) bool {
	switch vv := v.(type) {
	case []string:
		return len(vv) > 0
	case []any:
		return len(vv) > 0
	}
	return false
}

func hasFile(v any) bool {
	switch vv := v.(type) {
	case *multipart.FileHeader:
		return vv != nil
	case FileRef:
		return vv.FileName != "" || vv.FileUrl != ""
	case map[string]any:
		url, _ := vv["fileUrl"].(string)
		return url != ""
	}
	return false
}

// FileUploader sends a pending file answer to external storage.
type FileUploader interface {
	UploadFormFile(ctx context.Context, file *multipart.FileHeader, activityTitle string) (FileRef, error)
}

// Package uploads every file answer still pending and returns a copy of
// the responses with pending handles replaced by FileRefs. Any upload
// failure aborts the whole packaging: the error is returned and no
// partial result escapes. Callers must Validate first.
func (s Schema) Package(ctx context.Context, resp Responses, up FileUploader, activityTitle string) (Responses, error) {
	out := make(Responses, len(resp))
	for id, v := range resp {
		out[id] = v
	}

	for _, f := range s {
		if f.Kind != File {
			continue
		}
		fh, ok := out[f.ID].(*multipart.FileHeader)
		if !ok || fh == nil {
			continue
		}

		ref, err := up.UploadFormFile(ctx, fh, activityTitle)
		if err != nil {
			return nil, err
		}
		out[f.ID] = ref
	}
	return out, nil
}
