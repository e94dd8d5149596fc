package models

// Service is a catalog entry. Duration is a free-text descriptor such as
// "60 mins" or "2 hours".
type Service struct {
	ID            string  `bson:"id" json:"id"`
	Name          string  `bson:"name" json:"name"`
	SubCategoryID string  `bson:"subCategoryId" json:"subCategoryId"`
	Duration      string  `bson:"duration" json:"duration"`
	Price         float64 `bson:"price" json:"price"`
	Currency      string  `bson:"currency" json:"currency"`
}
