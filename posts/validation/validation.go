package validation

import (
	"fmt"
	"strings"

	"github.com/linkboard/api/posts/models"
)

const (
	maxTitleLength = 300
	maxTextLength  = 10000
)

// ValidateCreatePostRequest validates the create post request
func ValidateCreatePostRequest(req *models.CreatePostRequest) error {
	if req == nil {
		return fmt.Errorf("request is required")
	}

	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("title is required")
	}

	if len(req.Title) > maxTitleLength {
		return fmt.Errorf("title must be less than %d characters", maxTitleLength)
	}

	if len(req.Text) > maxTextLength {
		return fmt.Errorf("text must be less than %d characters", maxTextLength)
	}

	return nil
}

// ValidatePagination clamps limit and offset into range
func ValidatePagination(limit, offset, defaultLimit, maxLimit int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
