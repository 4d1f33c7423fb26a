package documents

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText_Plain(t *testing.T) {
	text, err := ExtractText("text/plain; charset=utf-8", []byte("Senior engineer at Acme"))
	require.NoError(t, err)
	assert.Equal(t, "Senior engineer at Acme", text)
}

func TestExtractText_Unsupported(t *testing.T) {
	_, err := ExtractText("image/png", []byte{0x89, 'P', 'N', 'G'})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedType))
}

func TestExtractText_CorruptDocuments(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
	}{
		{"pdf", MimePDF},
		{"docx", MimeDocx},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractText(tt.contentType, []byte("not a real document"))
			require.Error(t, err)
			assert.False(t, errors.Is(err, ErrUnsupportedType))
		})
	}
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		filename    string
		contentType string
		expected    string
	}{
		{"cv.PDF", "application/octet-stream", MimePDF},
		{"cv.docx", "application/octet-stream", MimeDocx},
		{"notes.txt", "", MimeText},
		{"photo.png", "image/png", "image/png"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectType(tt.filename, tt.contentType))
		})
	}
}

func TestStripTags(t *testing.T) {
	xml := `<w:document><w:body><w:p><w:r><w:t>Go</w:t></w:r></w:p><w:p><w:t>developer</w:t></w:p></w:body></w:document>`
	assert.Equal(t, "Go developer", stripTags(xml))
}
