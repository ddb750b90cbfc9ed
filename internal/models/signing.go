package models

import "time"

// Signing представляет запись на осмотр объекта.
// Данные посетителя денормализованы: хранятся так, как их ввели в форме.
type Signing struct {
	ID         int64     `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Surname    string    `db:"surname" json:"surname"`
	Patronymic string    `db:"patronymic" json:"patronymic"`
	Phone      string    `db:"phone" json:"phone"`
	Date       time.Time `db:"date" json:"date"`
	UserID     int64     `db:"user_id" json:"user_id"`
	ListingID  int64     `db:"listing_id" json:"listing_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// SigningWithListing - запись на осмотр вместе с объектом, на который она сделана.
type SigningWithListing struct {
	Signing Signing `db:"signing"`
	Listing Listing `db:"listing"`
}
