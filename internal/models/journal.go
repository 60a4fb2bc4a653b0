package models

import "time"

type Mood string

const (
	MoodVeryHappy Mood = "very_happy"
	MoodHappy     Mood = "happy"
	MoodExcited   Mood = "excited"
	MoodCalm      Mood = "calm"
	MoodGrateful  Mood = "grateful"
	MoodNeutral   Mood = "neutral"
	MoodAnxious   Mood = "anxious"
	MoodSad       Mood = "sad"
	MoodAngry     Mood = "angry"
	MoodVerySad   Mood = "very_sad"
)

var Moods = []Mood{
	MoodVeryHappy, MoodHappy, MoodExcited, MoodCalm, MoodGrateful,
	MoodNeutral, MoodAnxious, MoodSad, MoodAngry, MoodVerySad,
}

func (m Mood) Valid() bool {
	for _, v := range Moods {
		if m == v {
			return true
		}
	}
	return false
}

type Weather string

const (
	WeatherNone   Weather = ""
	WeatherSunny  Weather = "sunny"
	WeatherCloudy Weather = "cloudy"
	WeatherRainy  Weather = "rainy"
	WeatherStormy Weather = "stormy"
	WeatherSnowy  Weather = "snowy"
	WeatherWindy  Weather = "windy"
	WeatherFoggy  Weather = "foggy"
)

func (w Weather) Valid() bool {
	switch w {
	case WeatherNone, WeatherSunny, WeatherCloudy, WeatherRainy,
		WeatherStormy, WeatherSnowy, WeatherWindy, WeatherFoggy:
		return true
	}
	return false
}

// JournalEntry represents one day of journaling.
type JournalEntry struct {
	Meta
	Date      time.Time `json:"date"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Mood      Mood      `json:"mood"`
	Weather   Weather   `json:"weather"`
	Tags      []string  `json:"tags"`
	Gratitude []string  `json:"gratitude"`
}

type EntryPatch struct {
	Title     *string
	Content   *string
	Mood      *Mood
	Weather   *Weather
	Tags      *[]string
	Gratitude *[]string
}

func (p EntryPatch) Apply(e *JournalEntry) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Content != nil {
		e.Content = *p.Content
	}
	if p.Mood != nil {
		e.Mood = *p.Mood
	}
	if p.Weather != nil {
		e.Weather = *p.Weather
	}
	if p.Tags != nil {
		e.Tags = *p.Tags
	}
	if p.Gratitude != nil {
		e.Gratitude = *p.Gratitude
	}
}

type MoodCount struct {
	Mood  Mood `json:"mood"`
	Count int  `json:"count"`
}

type JournalStats struct {
	TotalEntries         int            `json:"totalEntries"`
	MoodCounts           map[Mood]int   `json:"moodCounts"`
	MostCommonMood       *MoodCount     `json:"mostCommonMood"`
	RecentEntries        int            `json:"recentEntries"`
	CurrentStreak        int            `json:"currentStreak"`
	TotalWords           int            `json:"totalWords"`
	AverageWordsPerEntry int            `json:"averageWordsPerEntry"`
	TopTags              []TagCount     `json:"topTags"`
	MonthlyEntries       map[string]int `json:"monthlyEntries"` // keyed YYYY-MM
	TotalTags            int            `json:"totalTags"`
}

// CalendarDay summarizes the entry recorded on one day of a month.
type CalendarDay struct {
	ID    string `json:"id"`
	Mood  Mood   `json:"mood"`
	Title string `json:"title"`
}
