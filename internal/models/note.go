package models

type NoteColor string

const (
	ColorYellow NoteColor = "yellow"
	ColorBlue   NoteColor = "blue"
	ColorGreen  NoteColor = "green"
	ColorPink   NoteColor = "pink"
	ColorPurple NoteColor = "purple"
	ColorOrange NoteColor = "orange"
	ColorRed    NoteColor = "red"
	ColorGray   NoteColor = "gray"
)

// NoteColors is the palette, in display order.
var NoteColors = []NoteColor{
	ColorYellow, ColorBlue, ColorGreen, ColorPink,
	ColorPurple, ColorOrange, ColorRed, ColorGray,
}

func (c NoteColor) Valid() bool {
	for _, v := range NoteColors {
		if c == v {
			return true
		}
	}
	return false
}

type Note struct {
	Meta
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Color    NoteColor `json:"color"`
	Tags     []string  `json:"tags"`
	IsPinned bool      `json:"isPinned"`
}

type NotePatch struct {
	Title   *string
	Content *string
	Color   *NoteColor
	Tags    *[]string
}

func (p NotePatch) Apply(n *Note) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Color != nil {
		n.Color = *p.Color
	}
	if p.Tags != nil {
		n.Tags = *p.Tags
	}
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type NoteStats struct {
	TotalNotes   int               `json:"totalNotes"`
	PinnedNotes  int               `json:"pinnedNotes"`
	NotesByColor map[NoteColor]int `json:"notesByColor"`
	TopTags      []TagCount        `json:"topTags"`
	RecentNotes  int               `json:"recentNotes"`
	TotalTags    int               `json:"totalTags"`
}
