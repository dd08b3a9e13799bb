package models

import "fmt"

// FeedKind distinguishes the two like-able collections of the community page.
type FeedKind string

const (
	FeedKindPost FeedKind = "post"
	FeedKindReel FeedKind = "reel"
)

func ParseFeedKind(s string) (FeedKind, error) {
	switch FeedKind(s) {
	case FeedKindPost, FeedKindReel:
		return FeedKind(s), nil
	}
	return "", fmt.Errorf("unknown feed kind %q", s)
}

// ItemKey identifies a feed item. Reels use their numeric id, posts their
// position in the list.
type ItemKey struct {
	Kind FeedKind `json:"kind" bson:"kind"`
	ID   int      `json:"id" bson:"item_id"`
}

func (k ItemKey) String() string { return fmt.Sprintf("%s:%d", k.Kind, k.ID) }

// FeedItem is a post or a reel loaded from the content catalog. It is never
// mutated after load.
type FeedItem struct {
	Key            ItemKey `json:"key" bson:"key"`
	Author         string  `json:"author" bson:"author"`
	AuthorImage    string  `json:"author_image,omitempty" bson:"author_image,omitempty"`
	Title          string  `json:"title,omitempty" bson:"title,omitempty"`
	Content        string  `json:"content" bson:"content"`
	Image          string  `json:"image,omitempty" bson:"image,omitempty"`
	Time           string  `json:"time,omitempty" bson:"time,omitempty"`
	LikesCount     int     `json:"likes_count" bson:"likes_count"`
	CommentsCount  int     `json:"comments_count" bson:"comments_count"`
	SharesCount    int     `json:"shares_count,omitempty" bson:"shares_count,omitempty"`
	InitiallyLiked bool    `json:"is_liked" bson:"is_liked"`
}

// Event is an entry of the community calendar.
type Event struct {
	Title       string `json:"title" bson:"title"`
	Date        string `json:"date" bson:"date"`
	Time        string `json:"time" bson:"time"`
	Location    string `json:"location" bson:"location"`
	Organizer   string `json:"organizer" bson:"organizer"`
	Description string `json:"description" bson:"description"`
	Attendees   int    `json:"attendees" bson:"attendees"`
}

// FAQ is one question of the resources page accordion.
type FAQ struct {
	Question string `json:"question" bson:"question"`
	Answer   string `json:"answer" bson:"answer"`
}
