package service

import "errors"

var (
	// ErrInvalidCredentials - unknown user id or wrong password.
	ErrInvalidCredentials = errors.New("invalid user id or password")

	// ErrRateLimited - too many login attempts inside the window.
	ErrRateLimited = errors.New("too many attempts, try again later")

	// ErrWrongAnswer - the security answer does not match.
	ErrWrongAnswer = errors.New("security answer does not match")

	// ErrEmptyReview - a review must carry text.
	ErrEmptyReview = errors.New("review text is empty")

	// ErrBadRating - rating outside 1..5.
	ErrBadRating = errors.New("rating must be between 1 and 5")
)
