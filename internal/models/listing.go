package models

import "time"

// Listing представляет объект недвижимости, выставленный пользователем.
type Listing struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	About     string    `db:"about" json:"about"`
	Tags      string    `db:"tags" json:"tags"` // Всегда ровно listing.TagWidth символов
	Price     int64     `db:"price" json:"price"`
	Address   string    `db:"address" json:"address"`
	ImageLink string    `db:"image_link" json:"image_link"` // Основное изображение
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Image представляет ссылку на изображение объекта.
type Image struct {
	ID        int64  `db:"id" json:"id"`
	ListingID int64  `db:"listing_id" json:"listing_id"`
	Link      string `db:"link" json:"link"`
}

// ListingFeedItem - элемент JSON-ленты /api/lodging.
type ListingFeedItem struct {
	Name      string `db:"name" json:"name"`
	About     string `db:"about" json:"about"`
	Address   string `db:"address" json:"address"`
	Price     int64  `db:"price" json:"price"`
	ImageLink string `db:"image_link" json:"image_link"`
	Tags      string `db:"tags" json:"tags"`
}

// ListingFeed - тело ответа /api/lodging.
type ListingFeed struct {
	News []ListingFeedItem `json:"news"`
}
