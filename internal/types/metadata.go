package types

// Metadata is the tag set written into merged media files.
type Metadata struct {
	Title       string
	Artist      string
	Description string
}
