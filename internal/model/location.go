package model

// Location is a logical storage partition (a restaurant location).
type Location struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
