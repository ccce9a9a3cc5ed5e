package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/linkboard/api/posts/models"
)

func TestValidateCreatePostRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     *models.CreatePostRequest
		wantErr string
	}{
		{name: "nil request", req: nil, wantErr: "request is required"},
		{name: "blank title", req: &models.CreatePostRequest{Title: "   "}, wantErr: "title is required"},
		{name: "long title", req: &models.CreatePostRequest{Title: strings.Repeat("a", 301)}, wantErr: "title must be less than"},
		{name: "long text", req: &models.CreatePostRequest{Title: "ok", Text: strings.Repeat("a", 10001)}, wantErr: "text must be less than"},
		{name: "valid", req: &models.CreatePostRequest{Title: "hello", Text: "world"}},
		{name: "empty text allowed", req: &models.CreatePostRequest{Title: "hello"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCreatePostRequest(tt.req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidatePagination(t *testing.T) {
	limit, offset := ValidatePagination(0, -5, 20, 100)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 0, offset)

	limit, offset = ValidatePagination(500, 40, 20, 100)
	assert.Equal(t, 100, limit)
	assert.Equal(t, 40, offset)

	limit, _ = ValidatePagination(7, 0, 20, 100)
	assert.Equal(t, 7, limit)
}
