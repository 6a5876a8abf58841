package types

// Category tags one of the content kinds the platform serves.
type Category string

const (
	// CategoryVideo is an ordinary user upload addressed by BV or AV id.
	CategoryVideo Category = "video"
	// CategoryBangumi is a serialized program episode addressed by season or episode id.
	CategoryBangumi Category = "bangumi"
	// CategoryCheese is a paid course episode addressed by season or episode id.
	CategoryCheese Category = "cheese"
)

// Categories returns every known category in a stable order.
func Categories() []Category {
	return []Category{CategoryVideo, CategoryBangumi, CategoryCheese}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryVideo, CategoryBangumi, CategoryCheese:
		return true
	}
	return false
}

func (c Category) String() string { return string(c) }

// Identifier addresses one work or one playable page. Zero values mean absent.
type Identifier struct {
	AID  int64
	BVID string
	EPID int64
	SSID int64
	CID  int64
}

// Empty reports whether no field is set.
func (id Identifier) Empty() bool {
	return id.AID == 0 && id.BVID == "" && id.EPID == 0 && id.SSID == 0 && id.CID == 0
}
