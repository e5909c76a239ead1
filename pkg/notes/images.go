package notes

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// Attachment limits mirror the server's. Enforcing them at selection time
// lets the client drop bad files before submission instead of failing the
// whole save.
const (
	MaxImagesPerNote = 5
	MaxImageBytes    = 5 * 1024 * 1024
)

// ImageFile is a file chosen for attachment: declared metadata plus a
// reader over the raw bytes.
type ImageFile struct {
	Name     string
	Mimetype string
	Size     int64
	Reader   io.Reader
}

// RejectedImage records a file dropped at selection time and why.
type RejectedImage struct {
	Name   string
	Reason string
}

// SelectImages validates and encodes chosen files for submission.
// existingCount is the number of images already on the note. Files that
// fail validation are dropped and reported individually; valid files past
// the per-note limit are rejected as well. The accepted payloads carry
// base64 data URLs ready for CreateNoteRequest or UpdateNoteRequest.
func SelectImages(existingCount int, files []ImageFile) ([]NewImage, []RejectedImage) {
	var accepted []NewImage
	var rejected []RejectedImage

	slots := MaxImagesPerNote - existingCount
	for _, f := range files {
		if !strings.HasPrefix(f.Mimetype, "image/") {
			rejected = append(rejected, RejectedImage{
				Name:   f.Name,
				Reason: fmt.Sprintf("%s is not an image", f.Mimetype),
			})
			continue
		}
		if f.Size > MaxImageBytes {
			rejected = append(rejected, RejectedImage{
				Name:   f.Name,
				Reason: fmt.Sprintf("%d bytes exceeds the %d byte limit", f.Size, MaxImageBytes),
			})
			continue
		}
		if slots <= 0 {
			rejected = append(rejected, RejectedImage{
				Name:   f.Name,
				Reason: fmt.Sprintf("a note holds at most %d images", MaxImagesPerNote),
			})
			continue
		}

		img, err := encodeImage(f)
		if err != nil {
			rejected = append(rejected, RejectedImage{Name: f.Name, Reason: err.Error()})
			continue
		}
		accepted = append(accepted, img)
		slots--
	}

	return accepted, rejected
}

func encodeImage(f ImageFile) (NewImage, error) {
	data, err := io.ReadAll(io.LimitReader(f.Reader, MaxImageBytes+1))
	if err != nil {
		return NewImage{}, fmt.Errorf("read failed: %v", err)
	}
	if int64(len(data)) > MaxImageBytes {
		return NewImage{}, fmt.Errorf("exceeded the %d byte limit while reading", MaxImageBytes)
	}

	return NewImage{
		OriginalName: f.Name,
		Mimetype:     f.Mimetype,
		Size:         int64(len(data)),
		Data:         "data:" + f.Mimetype + ";base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}
