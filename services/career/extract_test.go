package career

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"
)

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml":            `<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body + `</w:body></w:document>`,
	}
	for name, content := range files {
		f, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func TestExtractResumeText_PlainText(t *testing.T) {
	got, err := ExtractResumeText("text/plain; charset=utf-8", []byte("Jane Doe\nGo engineer"))
	if err != nil {
		t.Fatalf("ExtractResumeText() error = %v", err)
	}
	if got != "Jane Doe\nGo engineer" {
		t.Errorf("got %q", got)
	}
}

func TestExtractResumeText_Docx(t *testing.T) {
	data := buildDocx(t, `<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p><w:p><w:r><w:t>Built R&amp;D tooling</w:t></w:r></w:p>`)

	got, err := ExtractResumeText(MIMEDOCX, data)
	if err != nil {
		t.Fatalf("ExtractResumeText() error = %v", err)
	}
	if got != "Jane Doe\nBuilt R&D tooling" {
		t.Errorf("got %q", got)
	}
}

func TestExtractResumeText_Errors(t *testing.T) {
	tests := []struct {
		name string
		mime string
		data []byte
	}{
		{"empty", MIMEText, nil},
		{"unsupported", "image/png", []byte{0x89, 0x50}},
		{"corrupt pdf", MIMEPDF, []byte("not a pdf")},
		{"corrupt docx", MIMEDOCX, []byte("not a zip")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractResumeText(tt.mime, tt.data)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestMIMEFromFilename(t *testing.T) {
	tests := map[string]string{
		"cv.PDF":     MIMEPDF,
		"cv.docx":    MIMEDOCX,
		"notes.txt":  MIMEText,
		"photo.jpeg": "",
	}
	for name, want := range tests {
		if got := MIMEFromFilename(name); got != want {
			t.Errorf("MIMEFromFilename(%q) = %q, want %q", name, got, want)
		}
	}
}
