package models

// ArbitraryData is a single key/value row. Bookmarks are stored here as a JSON array of ids.
type ArbitraryData struct {
	ID    string `gorm:"primaryKey"`
	Value []byte
}
