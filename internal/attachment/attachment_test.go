package attachment

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/inkwellhq/inkwell/internal/types"
)

func TestValidate_RejectsNonImage(t *testing.T) {
	err := Validate(File{Name: "notes.pdf", Mimetype: "application/pdf", Size: 100})
	if !errors.Is(err, ErrInvalidType) {
		t.Errorf("expected ErrInvalidType, got %v", err)
	}
}

func TestValidate_RejectsOversized(t *testing.T) {
	err := Validate(File{Name: "huge.png", Mimetype: "image/png", Size: 6 * 1024 * 1024})
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

func TestValidate_AcceptsImageUnderLimit(t *testing.T) {
	// One byte under the 5 MiB limit.
	size := int64(5*1024*1024 - 1)
	if err := Validate(File{Name: "ok.png", Mimetype: "image/png", Size: size}); err != nil {
		t.Errorf("expected valid file, got %v", err)
	}
}

func TestEnforceLimit(t *testing.T) {
	tests := []struct {
		name                          string
		existing, pendingRemoval, new int
		wantErr                       bool
	}{
		{"empty note five new", 0, 0, 5, false},
		{"sixth image on full note", 5, 0, 1, true},
		{"removal frees a slot", 5, 1, 1, false},
		{"removals plus additions over limit", 5, 2, 3, true},
		{"exactly at limit", 3, 1, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := EnforceLimit(tt.existing, tt.pendingRemoval, tt.new)
			if tt.wantErr && !errors.Is(err, ErrTooMany) {
				t.Errorf("expected ErrTooMany, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestEncode_ProducesDataURL(t *testing.T) {
	payload := []byte("fake png bytes")
	att, err := Encode(File{
		Name:     "photo.png",
		Mimetype: "image/png",
		Size:     int64(len(payload)),
		Reader:   strings.NewReader(string(payload)),
	})
	if err != nil {
		t.Fatal(err)
	}

	if att.Filename == "" {
		t.Error("expected generated filename")
	}
	if att.OriginalName != "photo.png" {
		t.Errorf("expected original name preserved, got %q", att.OriginalName)
	}
	if att.Size != int64(len(payload)) {
		t.Errorf("expected size %d, got %d", len(payload), att.Size)
	}

	prefix := "data:image/png;base64,"
	if !strings.HasPrefix(att.Data, prefix) {
		t.Fatalf("expected data URL, got %q", att.Data)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(att.Data, prefix))
	if err != nil {
		t.Fatal(err)
	}
	if string(decoded) != string(payload) {
		t.Error("decoded payload does not match input bytes")
	}
}

func TestEncode_UniqueFilenames(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		att, err := Encode(File{Name: "a.png", Mimetype: "image/png", Size: 1, Reader: strings.NewReader("x")})
		if err != nil {
			t.Fatal(err)
		}
		if seen[att.Filename] {
			t.Fatalf("duplicate filename %q", att.Filename)
		}
		seen[att.Filename] = true
	}
}

func TestEncode_ReaderExceedsDeclaredSize(t *testing.T) {
	// Declared size passes validation but the reader yields more than the
	// limit; the read must fail rather than embed an oversized payload.
	oversized := strings.Repeat("x", types.MaxImageBytes+10)
	_, err := Encode(File{
		Name:     "liar.png",
		Mimetype: "image/png",
		Size:     100,
		Reader:   strings.NewReader(oversized),
	})
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

func TestEncodePayload_PayloadExceedsDeclaredSize(t *testing.T) {
	// A small declared size must not let an oversized data URL through;
	// the decoded payload length is what counts.
	raw := make([]byte, types.MaxImageBytes+1)
	img := types.NewImage{
		OriginalName: "liar.png",
		Mimetype:     "image/png",
		Size:         4,
		Data:         "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw),
	}

	_, err := EncodePayload(img)
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

func TestEncodePayload_AcceptsPayloadAtLimit(t *testing.T) {
	raw := make([]byte, types.MaxImageBytes)
	img := types.NewImage{
		OriginalName: "full.png",
		Mimetype:     "image/png",
		Size:         types.MaxImageBytes,
		Data:         "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw),
	}

	if _, err := EncodePayload(img); err != nil {
		t.Errorf("expected payload at the limit to pass, got %v", err)
	}
}

func TestEncodeBatch_RejectionDoesNotAbortBatch(t *testing.T) {
	images := []types.NewImage{
		{OriginalName: "ok1.png", Mimetype: "image/png", Size: 10, Data: "data:image/png;base64,aGVsbG8="},
		{OriginalName: "bad.txt", Mimetype: "text/plain", Size: 10, Data: "data:text/plain;base64,aGVsbG8="},
		{OriginalName: "ok2.jpg", Mimetype: "image/jpeg", Size: 10, Data: "data:image/jpeg;base64,aGVsbG8="},
	}

	encoded, rejected := EncodeBatch(images)
	if len(encoded) != 2 {
		t.Errorf("expected 2 encoded, got %d", len(encoded))
	}
	if len(rejected) != 1 {
		t.Fatalf("expected 1 rejection, got %d", len(rejected))
	}
	if rejected[0].Name != "bad.txt" || !errors.Is(rejected[0].Err, ErrInvalidType) {
		t.Errorf("unexpected rejection: %+v", rejected[0])
	}
}

func TestStaging_RemovalLifecycle(t *testing.T) {
	s := NewStaging(5)

	// A full note cannot take a new image...
	if err := s.Add(types.NewImage{OriginalName: "new.png", Mimetype: "image/png", Size: 1, Data: "d"}); !errors.Is(err, ErrTooMany) {
		t.Errorf("expected ErrTooMany, got %v", err)
	}

	// ...until an existing one is marked for removal.
	s.MarkRemoval("old-file")
	if err := s.Add(types.NewImage{OriginalName: "new.png", Mimetype: "image/png", Size: 1, Data: "d"}); err != nil {
		t.Fatalf("expected add after removal, got %v", err)
	}
	if s.ProjectedCount() != 5 {
		t.Errorf("expected projected count 5, got %d", s.ProjectedCount())
	}

	// Restoring the removal puts the note back over the limit for
	// further additions, but staged additions remain.
	s.UnmarkRemoval("old-file")
	if len(s.Removals()) != 0 {
		t.Errorf("expected no removals, got %v", s.Removals())
	}
	if len(s.Additions()) != 1 {
		t.Errorf("expected staged addition preserved, got %d", len(s.Additions()))
	}
}

func TestStaging_UnstageAddition(t *testing.T) {
	s := NewStaging(0)
	if err := s.Add(
		types.NewImage{OriginalName: "a.png", Mimetype: "image/png", Size: 1, Data: "d"},
		types.NewImage{OriginalName: "b.png", Mimetype: "image/png", Size: 1, Data: "d"},
	); err != nil {
		t.Fatal(err)
	}

	s.Unstage(0)
	adds := s.Additions()
	if len(adds) != 1 || adds[0].OriginalName != "b.png" {
		t.Errorf("expected only b.png staged, got %+v", adds)
	}

	// Out-of-range indices are ignored.
	s.Unstage(5)
	s.Unstage(-1)
	if len(s.Additions()) != 1 {
		t.Errorf("unexpected unstage effect: %+v", s.Additions())
	}
}
