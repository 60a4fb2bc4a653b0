package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/metaflow/internal/constants"
	"github.com/julianstephens/metaflow/internal/models"
	"github.com/julianstephens/metaflow/internal/utils"
)

type JournalCmd struct {
	Add      JournalAddCmd      `cmd:"" help:"Write a journal entry."`
	List     JournalListCmd     `cmd:"" help:"List journal entries, newest first."`
	Edit     JournalEditCmd     `cmd:"" help:"Edit a journal entry."`
	Delete   JournalDeleteCmd   `cmd:"" help:"Delete a journal entry."`
	Search   JournalSearchCmd   `cmd:"" help:"Search entries, including gratitude items."`
	Tags     JournalTagsCmd     `cmd:"" help:"List every tag used in the journal."`
	Stats    JournalStatsCmd    `cmd:"" help:"Show journal statistics."`
	Today    JournalTodayCmd    `cmd:"" help:"Show today's entry."`
	Calendar JournalCalendarCmd `cmd:"" help:"Show a month of entries as a calendar."`
	Export   JournalExportCmd   `cmd:"" help:"Export the journal as plain text."`
}

type JournalAddCmd struct {
	Title     string `help:"Entry title." short:"t"`
	Content   string `help:"Entry body." short:"c"`
	Mood      string `help:"Mood (very_happy, happy, excited, calm, grateful, neutral, anxious, sad, angry, very_sad)." default:"neutral"`
	Weather   string `help:"Weather (sunny, cloudy, rainy, stormy, snowy, windy, foggy)."`
	Tags      string `help:"Comma-separated tags."`
	Gratitude string `help:"Up to three comma-separated things you're grateful for."`
	Date      string `help:"Date in YYYY-MM-DD format (default: now)."`
}

func (c *JournalAddCmd) Run(ctx *Context) error {
	entry := models.JournalEntry{
		Title:     c.Title,
		Content:   c.Content,
		Mood:      models.Mood(c.Mood),
		Weather:   models.Weather(c.Weather),
		Tags:      utils.SplitList(c.Tags),
		Gratitude: utils.SplitList(c.Gratitude),
	}
	if c.Date != "" {
		day, err := utils.ParseDay(c.Date, time.Local)
		if err != nil {
			return err
		}
		entry.Date = day
	}
	saved, err := ctx.Services.Journal.Save(ctx.ctx(), entry)
	if err != nil {
		return err
	}
	ctx.printf("Saved entry for %s (%s)\n", saved.Date.Local().Format(constants.DateFormat), saved.ID)
	return nil
}

type JournalListCmd struct {
	Mood  string `help:"Only entries with this mood."`
	Tag   string `help:"Only entries with this tag."`
	From  string `help:"Only entries on or after this date (YYYY-MM-DD)."`
	To    string `help:"Only entries on or before this date (YYYY-MM-DD)."`
	Limit int    `help:"Show at most this many entries." default:"0"`
}

func (c *JournalListCmd) Run(ctx *Context) error {
	var entries []models.JournalEntry
	switch {
	case c.From != "" || c.To != "":
		start, end := time.Time{}, time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
		if c.From != "" {
			t, err := utils.ParseDay(c.From, time.Local)
			if err != nil {
				return err
			}
			start = t
		}
		if c.To != "" {
			t, err := utils.ParseDay(c.To, time.Local)
			if err != nil {
				return err
			}
			end = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		entries = ctx.Services.Journal.ByDateRange(ctx.ctx(), start, end)
	case c.Mood != "":
		entries = ctx.Services.Journal.ByMood(ctx.ctx(), models.Mood(c.Mood))
	case c.Tag != "":
		entries = ctx.Services.Journal.ByTag(ctx.ctx(), c.Tag)
	default:
		entries = ctx.Services.Journal.List(ctx.ctx())
	}
	if c.Limit > 0 && len(entries) > c.Limit {
		entries = entries[:c.Limit]
	}
	printEntries(ctx, entries)
	return nil
}

func printEntries(ctx *Context, entries []models.JournalEntry) {
	if len(entries) == 0 {
		ctx.println("No journal entries found.")
		return
	}
	for _, e := range entries {
		title := e.Title
		if title == "" {
			title = truncate(e.Content, 30)
		}
		ctx.printf("%s  %s  %-10s %s%s\n", e.Date.Local().Format(constants.DateFormat), e.ID, e.Mood, title, joinTags(e.Tags))
	}
}

type JournalEditCmd struct {
	ID        string  `arg:"" help:"Entry ID."`
	Title     *string `help:"New title."`
	Content   *string `help:"New body."`
	Mood      *string `help:"New mood."`
	Weather   *string `help:"New weather."`
	Tags      *string `help:"Replace tags with this comma-separated list."`
	Gratitude *string `help:"Replace gratitude items with this comma-separated list."`
}

func (c *JournalEditCmd) Run(ctx *Context) error {
	patch := models.EntryPatch{
		Title:     c.Title,
		Content:   c.Content,
		Tags:      listPtr(c.Tags),
		Gratitude: listPtr(c.Gratitude),
	}
	if c.Mood != nil {
		m := models.Mood(*c.Mood)
		patch.Mood = &m
	}
	if c.Weather != nil {
		w := models.Weather(*c.Weather)
		patch.Weather = &w
	}
	entry, err := ctx.Services.Journal.Update(ctx.ctx(), c.ID, patch)
	if err != nil {
		return err
	}
	ctx.printf("Updated entry for %s\n", entry.Date.Local().Format(constants.DateFormat))
	return nil
}

type JournalDeleteCmd struct {
	ID string `arg:"" help:"Entry ID."`
}

func (c *JournalDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Services.Journal.Delete(ctx.ctx(), c.ID); err != nil {
		return err
	}
	ctx.printf("Deleted entry %s\n", c.ID)
	return nil
}

type JournalSearchCmd struct {
	Query string `arg:"" help:"Text to look for."`
}

func (c *JournalSearchCmd) Run(ctx *Context) error {
	printEntries(ctx, ctx.Services.Journal.Search(ctx.ctx(), c.Query))
	return nil
}

type JournalTagsCmd struct{}

func (c *JournalTagsCmd) Run(ctx *Context) error {
	tags := ctx.Services.Journal.AllTags(ctx.ctx())
	if len(tags) == 0 {
		ctx.println("No tags yet.")
		return nil
	}
	ctx.println(strings.Join(tags, "\n"))
	return nil
}

type JournalStatsCmd struct{}

func (c *JournalStatsCmd) Run(ctx *Context) error {
	stats := ctx.Services.Journal.Stats(ctx.ctx())
	ctx.printf("Entries:        %d (%d this week)\n", stats.TotalEntries, stats.RecentEntries)
	ctx.printf("Current streak: %d days\n", stats.CurrentStreak)
	ctx.printf("Words:          %d (avg %d per entry)\n", stats.TotalWords, stats.AverageWordsPerEntry)
	if stats.MostCommonMood != nil {
		ctx.printf("Common mood:    %s (%d)\n", stats.MostCommonMood.Mood, stats.MostCommonMood.Count)
	}
	if len(stats.TopTags) > 0 {
		ctx.println("Top tags:")
		for _, tc := range stats.TopTags {
			ctx.printf("  #%s %d\n", tc.Tag, tc.Count)
		}
	}
	if len(stats.MonthlyEntries) > 0 {
		months := make([]string, 0, len(stats.MonthlyEntries))
		for m := range stats.MonthlyEntries {
			months = append(months, m)
		}
		sort.Strings(months)
		ctx.println("By month:")
		for _, m := range months {
			ctx.printf("  %s %d\n", m, stats.MonthlyEntries[m])
		}
	}
	return nil
}

type JournalTodayCmd struct{}

func (c *JournalTodayCmd) Run(ctx *Context) error {
	entry, ok := ctx.Services.Journal.Today(ctx.ctx())
	if !ok {
		ctx.println("No entry yet today. Write one with: metaflow journal add")
		return nil
	}
	if entry.Title != "" {
		ctx.println(entry.Title)
	}
	ctx.printf("Mood: %s", entry.Mood)
	if entry.Weather != models.WeatherNone {
		ctx.printf("  Weather: %s", entry.Weather)
	}
	ctx.println()
	if entry.Content != "" {
		ctx.printf("\n%s\n", entry.Content)
	}
	if len(entry.Gratitude) > 0 {
		ctx.println("\nGrateful for:")
		for _, g := range entry.Gratitude {
			ctx.printf("  - %s\n", g)
		}
	}
	return nil
}

type JournalCalendarCmd struct {
	Month string `help:"Month in YYYY-MM format (default: current month)."`
}

func (c *JournalCalendarCmd) Run(ctx *Context) error {
	now := ctx.now()
	year, month := now.Year(), now.Month()
	if c.Month != "" {
		t, err := time.Parse("2006-01", c.Month)
		if err != nil {
			return fmt.Errorf("invalid month %q (expected YYYY-MM)", c.Month)
		}
		year, month = t.Year(), t.Month()
	}
	days := ctx.Services.Journal.Calendar(ctx.ctx(), year, month)
	ctx.println(renderCalendar(year, month, days))
	return nil
}

// renderCalendar draws a Monday-first month grid; days with an entry are starred.
func renderCalendar(year int, month time.Month, days map[int]models.CalendarDay) string {
	var b strings.Builder
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()

	fmt.Fprintf(&b, "%s %d\n", month, year)
	b.WriteString(" Mo  Tu  We  Th  Fr  Sa  Su\n")
	offset := (int(first.Weekday()) + 6) % 7
	b.WriteString(strings.Repeat("    ", offset))
	for day := 1; day <= last; day++ {
		mark := " "
		if _, ok := days[day]; ok {
			mark = "*"
		}
		fmt.Fprintf(&b, "%3d%s", day, mark)
		if (offset+day)%7 == 0 && day != last {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	if len(days) > 0 {
		keys := make([]int, 0, len(days))
		for d := range days {
			keys = append(keys, d)
		}
		sort.Ints(keys)
		b.WriteString("\n")
		for _, d := range keys {
			fmt.Fprintf(&b, "%2d  %-10s %s\n", d, days[d].Mood, days[d].Title)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

type JournalExportCmd struct {
	Output string `help:"Write to this file instead of stdout." short:"o" type:"path"`
}

func (c *JournalExportCmd) Run(ctx *Context) error {
	return writeText(ctx, c.Output, ctx.Services.Journal.ExportText(ctx.ctx()))
}
