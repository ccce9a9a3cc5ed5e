// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Direction is the sign of a ledger entry. Only Up and Down exist.
type Direction int

const (
	Up   Direction = 1
	Down Direction = -1
)

// NormalizeDirection maps a caller-supplied vote value to a Direction.
// Exactly -1 is a down-vote; every other value, including 0, is an up-vote.
// Callers rely on this coercion instead of validating the raw value.
func NormalizeDirection(raw int) Direction {
	if raw == -1 {
		return Down
	}
	return Up
}

// Int returns the signed value stored in the ledger
func (d Direction) Int() int {
	return int(d)
}

// Opposite returns the reversed direction
func (d Direction) Opposite() Direction {
	return -d
}

// Valid reports whether d is Up or Down
func (d Direction) Valid() bool {
	return d == Up || d == Down
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Value implements driver.Valuer
func (d Direction) Value() (driver.Value, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid vote direction %d", int(d))
	}
	return int64(d), nil
}

// Scan implements sql.Scanner and rejects stored values outside {1, -1}
func (d *Direction) Scan(src interface{}) error {
	var n int64
	switch v := src.(type) {
	case int64:
		n = v
	case int32:
		n = int64(v)
	case []byte:
		if _, err := fmt.Sscan(string(v), &n); err != nil {
			return fmt.Errorf("scan vote direction: %w", err)
		}
	default:
		return fmt.Errorf("scan vote direction: unsupported type %T", src)
	}

	dir := Direction(n)
	if !dir.Valid() {
		return fmt.Errorf("scan vote direction: stored value %d is not 1 or -1", n)
	}
	*d = dir
	return nil
}

// Key identifies a ledger entry
type Key struct {
	UserID int64
	PostID int64
}

// Vote is one user's signed judgment on one post
type Vote struct {
	UserID    int64     `db:"user_id" json:"userId"`
	PostID    int64     `db:"post_id" json:"postId"`
	Value     Direction `db:"value" json:"value"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Key returns the ledger key of v
func (v *Vote) Key() Key {
	return Key{UserID: v.UserID, PostID: v.PostID}
}

// Transition is the outcome of casting a vote
type Transition string

const (
	// TransitionInsert recorded a first vote
	TransitionInsert Transition = "insert"
	// TransitionFlip reversed an existing vote
	TransitionFlip Transition = "flip"
	// TransitionNoOp found the same vote already recorded
	TransitionNoOp Transition = "noop"
)

// ScoreDelta is the change to a post's score caused by moving from the
// existing entry (nil when absent) to next.
//
//	absent -> d : d
//	d      -> d : 0
//	-d     -> d : 2d
func ScoreDelta(existing *Vote, next Direction) int {
	if existing == nil {
		return next.Int()
	}
	if existing.Value == next {
		return 0
	}
	return 2 * next.Int()
}

// CastVoteRequest is the body of a vote request
type CastVoteRequest struct {
	PostID int64 `json:"postId"`
	Value  int   `json:"value"`
}

// CastVoteResponse reports a successful vote
type CastVoteResponse struct {
	Success    bool       `json:"success"`
	Transition Transition `json:"transition"`
}
