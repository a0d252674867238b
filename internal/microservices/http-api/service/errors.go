package service

import "errors"

var (
	ErrNameInUse          = errors.New("username already in use")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")

	ErrBookNotFound    = errors.New("book not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrRatingNotFound  = errors.New("rating not found")
	ErrUnknownGenre    = errors.New("unknown genre")
	ErrNotBookAuthor   = errors.New("you are not an author of this book")
	ErrNotCommentOwner = errors.New("you don't have permission to change this comment")
	ErrInvalidRate     = errors.New("rate must be between 0 and 10")
)

const (
	MinRate = 0
	MaxRate = 10
)
