package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Speaker is an embedded name/bio pair. Array position is display position.
type Speaker struct {
	Name string `json:"name" bson:"name"`
	Bio  string `json:"bio" bson:"bio"`
}

// Subevent is a segment embedded in one Event document. It is never persisted
// on its own; its lifecycle is bound to the parent Event update. The ID is
// client-generated and only used for stable list keys in the admin UI.
type Subevent struct {
	ID          string    `json:"id" bson:"id"`
	Time        string    `json:"time" bson:"time"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	Speakers    []Speaker `json:"speakers,omitempty" bson:"speakers,omitempty"`
	Order       int       `json:"order" bson:"order"`
}

// Event is one document in the events collection. Order is the zero-based
// display position; values need not be contiguous, ascending sort defines the
// listing order with ties broken by id.
type Event struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Slug        string             `json:"slug" bson:"slug"`
	Title       string             `json:"title" bson:"title"`
	Date        string             `json:"date" bson:"date"`
	Time        string             `json:"time" bson:"time"`
	Venue       string             `json:"venue" bson:"venue"`
	Activities  string             `json:"activities" bson:"activities"`
	Audience    string             `json:"audience" bson:"audience"`
	Description string             `json:"description" bson:"description"`
	Image       string             `json:"image" bson:"image"`
	Register    bool               `json:"register" bson:"register"`
	Speakers    []Speaker          `json:"speakers,omitempty" bson:"speakers,omitempty"`
	Subevents   []Subevent         `json:"subevents,omitempty" bson:"subevents,omitempty"`
	Order       int                `json:"order" bson:"order"`
}

// OrderPair is one element of a batched reorder write.
type OrderPair struct {
	ID    string `json:"id" bson:"id"`
	Order int    `json:"order" bson:"order"`
}

// LibraryImage is a record of an image uploaded through the admin panel,
// listed back to admins as a reusable image library.
type LibraryImage struct {
	ID        string `json:"id" bson:"id"`
	Name      string `json:"name" bson:"name"`
	URL       string `json:"url" bson:"url"`
	Thumbnail string `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
}
