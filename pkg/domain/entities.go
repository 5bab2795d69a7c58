package domain

// Post is a submitted story that users vote on.
type Post struct {
	ID     int64
	Author string
	Score  int64
}

// Comment belongs to a Post and is voted on independently.
type Comment struct {
	ID     int64
	PostID int64
	Author string
	Score  int64
}

// Actor is the user behind an action. Moderators may delete items written
// by others.
type Actor struct {
	Name      string
	Moderator bool
}

// CanDelete reports whether a may delete an item written by author.
func (a Actor) CanDelete(author string) bool {
	return a.Moderator || a.Name == author
}
