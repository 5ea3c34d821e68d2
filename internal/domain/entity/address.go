package entity

// Address identifies the location schedules are fetched for. ID is the
// remote calendar system's location identifier; Title is the display string.
type Address struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}
