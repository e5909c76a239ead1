// Package attachment validates and encodes user-supplied images into
// self-contained embedded attachments. Limits: media type must be image/*,
// 5 MiB per file, 5 attachments per note.
package attachment

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/inkwellhq/inkwell/internal/types"
)

var (
	// ErrInvalidType is returned when the declared media type is not an image.
	ErrInvalidType = errors.New("attachment is not an image")
	// ErrTooLarge is returned when a file exceeds the per-image byte limit.
	ErrTooLarge = errors.New("attachment exceeds size limit")
	// ErrTooMany is returned when a note would exceed the attachment count limit.
	ErrTooMany = errors.New("too many attachments")
)

// File is a single pending upload: declared metadata plus a reader over
// the raw bytes.
type File struct {
	Name     string
	Mimetype string
	Size     int64
	Reader   io.Reader
}

// Validate checks a file's declared media type and size before any bytes
// are read.
func Validate(f File) error {
	if !strings.HasPrefix(f.Mimetype, "image/") {
		return fmt.Errorf("%w: %s has type %q", ErrInvalidType, f.Name, f.Mimetype)
	}
	if f.Size > types.MaxImageBytes {
		return fmt.Errorf("%w: %s is %d bytes, maximum is %d", ErrTooLarge, f.Name, f.Size, types.MaxImageBytes)
	}
	return nil
}

// EnforceLimit checks that a note would stay within the attachment count
// limit after removing pendingRemoval existing images and adding newCount.
func EnforceLimit(existing, pendingRemoval, newCount int) error {
	if existing-pendingRemoval+newCount > types.MaxImagesPerNote {
		return fmt.Errorf("%w: maximum is %d images per note", ErrTooMany, types.MaxImagesPerNote)
	}
	return nil
}

// Encode reads the file fully and produces an embedded attachment with a
// generated filename and a base64 data URL suitable for inline rendering.
// Reading is bounded at one byte past the size limit so a lying or stalled
// source surfaces as an error instead of unbounded memory growth.
func Encode(f File) (types.Attachment, error) {
	if err := Validate(f); err != nil {
		return types.Attachment{}, err
	}

	data, err := io.ReadAll(io.LimitReader(f.Reader, types.MaxImageBytes+1))
	if err != nil {
		return types.Attachment{}, fmt.Errorf("read attachment %s: %w", f.Name, err)
	}
	if int64(len(data)) > types.MaxImageBytes {
		return types.Attachment{}, fmt.Errorf("%w: %s exceeded %d bytes while reading", ErrTooLarge, f.Name, types.MaxImageBytes)
	}

	return types.Attachment{
		Filename:     uuid.New().String(),
		OriginalName: f.Name,
		Mimetype:     f.Mimetype,
		Size:         int64(len(data)),
		Data:         "data:" + f.Mimetype + ";base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}

// EncodePayload builds an embedded attachment from an already-encoded
// payload, the form the HTTP client submits. The data URL is passed
// through untouched, but its decoded length is checked against the size
// limit so the declared size cannot understate the payload.
func EncodePayload(img types.NewImage) (types.Attachment, error) {
	if err := Validate(File{Name: img.OriginalName, Mimetype: img.Mimetype, Size: img.Size}); err != nil {
		return types.Attachment{}, err
	}
	if img.Data == "" {
		return types.Attachment{}, fmt.Errorf("attachment %s has no data", img.OriginalName)
	}
	if n := payloadBytes(img.Data); n > types.MaxImageBytes {
		return types.Attachment{}, fmt.Errorf("%w: %s payload is %d bytes, maximum is %d", ErrTooLarge, img.OriginalName, n, types.MaxImageBytes)
	}

	return types.Attachment{
		Filename:     uuid.New().String(),
		OriginalName: img.OriginalName,
		Mimetype:     img.Mimetype,
		Size:         img.Size,
		Data:         img.Data,
	}, nil
}

// payloadBytes computes the decoded byte length of a data URL's base64
// section without decoding it.
func payloadBytes(dataURL string) int64 {
	encoded := dataURL
	if i := strings.IndexByte(dataURL, ','); i >= 0 {
		encoded = dataURL[i+1:]
	}
	n := int64(len(encoded)) / 4 * 3
	for pad := 0; pad < 2 && pad < len(encoded); pad++ {
		if encoded[len(encoded)-1-pad] == '=' {
			n--
		}
	}
	return n
}

// Rejection records a single file refused during batch processing.
type Rejection struct {
	Name string
	Err  error
}

// EncodeBatch encodes every valid payload and reports rejected ones
// individually. A rejected file never aborts the rest of the batch.
func EncodeBatch(images []types.NewImage) ([]types.Attachment, []Rejection) {
	var encoded []types.Attachment
	var rejected []Rejection

	for _, img := range images {
		att, err := EncodePayload(img)
		if err != nil {
			rejected = append(rejected, Rejection{Name: img.OriginalName, Err: err})
			continue
		}
		encoded = append(encoded, att)
	}
	return encoded, rejected
}
