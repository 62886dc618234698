package storage

import "testing"

func TestImageContentType(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		wantCT string
		wantOK bool
	}{
		{"jpeg", "avatar.JPG", "image/jpeg", true},
		{"png", "a/b/avatar.png", "image/png", true},
		{"webp", "x.webp", "image/webp", true},
		{"svg rejected", "x.svg", "", false},
		{"no extension", "avatar", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, ok := ImageContentType(tt.file)
			if ct != tt.wantCT || ok != tt.wantOK {
				t.Errorf("ImageContentType(%q) = (%q, %v), want (%q, %v)", tt.file, ct, ok, tt.wantCT, tt.wantOK)
			}
		})
	}
}
