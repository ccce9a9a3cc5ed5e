// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

import (
	"time"

	userModels "github.com/linkboard/api/users/models"
)

// Post is a submitted link or text post. Score is the running sum of its votes.
type Post struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Text      string    `db:"text" json:"text"`
	Score     int64     `db:"score" json:"score"`
	CreatorID int64     `db:"creator_id" json:"creatorId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// PostView is a post as rendered for a viewer.
// VoteStatus is nil when the viewer is anonymous or has not voted.
type PostView struct {
	Post
	Creator    *userModels.User `json:"creator"`
	VoteStatus *int             `json:"voteStatus"`
}

// CreatePostRequest is the body of a create post request
type CreatePostRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// CreatePostResponse returns the id of a created post
type CreatePostResponse struct {
	ID int64 `json:"id"`
}

// PostsListResponse is a page of posts
type PostsListResponse struct {
	Posts  []*PostView `json:"posts"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}
