package models

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&RefreshToken{},
		&Genre{},
		&Book{},
		&BookGenre{},
		&BookAuthor{},
		&Comment{},
		&BookLike{},
		&CommentLike{},
	}
}
