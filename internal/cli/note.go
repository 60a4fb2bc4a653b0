package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/metaflow/internal/models"
	"github.com/julianstephens/metaflow/internal/utils"
)

type NoteCmd struct {
	Add    NoteAddCmd    `cmd:"" help:"Add a note."`
	List   NoteListCmd   `cmd:"" help:"List notes, pinned first."`
	Edit   NoteEditCmd   `cmd:"" help:"Edit a note."`
	Delete NoteDeleteCmd `cmd:"" help:"Delete a note."`
	Pin    NotePinCmd    `cmd:"" help:"Pin or unpin a note."`
	Search NoteSearchCmd `cmd:"" help:"Search note titles, content and tags."`
	Tags   NoteTagsCmd   `cmd:"" help:"List every tag used by notes."`
	Stats  NoteStatsCmd  `cmd:"" help:"Show note statistics."`
	Export NoteExportCmd `cmd:"" help:"Export notes as plain text."`
	Import NoteImportCmd `cmd:"" help:"Import notes from plain text."`
}

const noteColors = "yellow,blue,green,pink,purple,orange,red,gray"

type NoteAddCmd struct {
	Title   string `arg:"" help:"Note title."`
	Content string `help:"Note body." short:"c"`
	Color   string `help:"Note color." default:"yellow" enum:"yellow,blue,green,pink,purple,orange,red,gray"`
	Tags    string `help:"Comma-separated tags."`
	Pinned  bool   `help:"Pin the note."`
}

func (c *NoteAddCmd) Run(ctx *Context) error {
	note, err := ctx.Services.Notes.Save(ctx.ctx(), models.Note{
		Title:    c.Title,
		Content:  c.Content,
		Color:    models.NoteColor(c.Color),
		Tags:     utils.SplitList(c.Tags),
		IsPinned: c.Pinned,
	})
	if err != nil {
		return err
	}
	ctx.printf("Added note: %s (%s)\n", note.Title, note.ID)
	return nil
}

type NoteListCmd struct {
	Color string `help:"Only notes of this color."`
	Tag   string `help:"Only notes with this tag."`
	Limit int    `help:"Show at most this many of the most recent notes." default:"0"`
}

func (c *NoteListCmd) Run(ctx *Context) error {
	var notes []models.Note
	switch {
	case c.Limit > 0:
		notes = ctx.Services.Notes.Recent(ctx.ctx(), c.Limit)
	case c.Color != "":
		if !models.NoteColor(c.Color).Valid() {
			return fmt.Errorf("invalid color %q (want one of %s)", c.Color, noteColors)
		}
		notes = ctx.Services.Notes.ByColor(ctx.ctx(), models.NoteColor(c.Color))
	case c.Tag != "":
		notes = ctx.Services.Notes.ByTag(ctx.ctx(), c.Tag)
	default:
		notes = ctx.Services.Notes.List(ctx.ctx())
	}
	printNotes(ctx, notes)
	return nil
}

func printNotes(ctx *Context, notes []models.Note) {
	if len(notes) == 0 {
		ctx.println("No notes found.")
		return
	}
	for _, n := range notes {
		pin := " "
		if n.IsPinned {
			pin = "*"
		}
		ctx.printf("%s %s  %-24s %-7s %s%s\n", pin, n.ID, n.Title, n.Color, truncate(n.Content, 40), joinTags(n.Tags))
	}
}

type NoteEditCmd struct {
	ID      string  `arg:"" help:"Note ID."`
	Title   *string `help:"New title."`
	Content *string `help:"New body."`
	Color   *string `help:"New color."`
	Tags    *string `help:"Replace tags with this comma-separated list."`
}

func (c *NoteEditCmd) Run(ctx *Context) error {
	patch := models.NotePatch{Title: c.Title, Content: c.Content, Tags: listPtr(c.Tags)}
	if c.Color != nil {
		color := models.NoteColor(*c.Color)
		patch.Color = &color
	}
	note, err := ctx.Services.Notes.Update(ctx.ctx(), c.ID, patch)
	if err != nil {
		return err
	}
	ctx.printf("Updated note: %s\n", note.Title)
	return nil
}

type NoteDeleteCmd struct {
	ID string `arg:"" help:"Note ID."`
}

func (c *NoteDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Services.Notes.Delete(ctx.ctx(), c.ID); err != nil {
		return err
	}
	ctx.printf("Deleted note %s\n", c.ID)
	return nil
}

type NotePinCmd struct {
	ID string `arg:"" help:"Note ID."`
}

func (c *NotePinCmd) Run(ctx *Context) error {
	note, err := ctx.Services.Notes.TogglePin(ctx.ctx(), c.ID)
	if err != nil {
		return err
	}
	if note.IsPinned {
		ctx.printf("Pinned %q\n", note.Title)
	} else {
		ctx.printf("Unpinned %q\n", note.Title)
	}
	return nil
}

type NoteSearchCmd struct {
	Query string `arg:"" help:"Text to look for."`
}

func (c *NoteSearchCmd) Run(ctx *Context) error {
	printNotes(ctx, ctx.Services.Notes.Search(ctx.ctx(), c.Query))
	return nil
}

type NoteTagsCmd struct{}

func (c *NoteTagsCmd) Run(ctx *Context) error {
	tags := ctx.Services.Notes.AllTags(ctx.ctx())
	if len(tags) == 0 {
		ctx.println("No tags yet.")
		return nil
	}
	ctx.println(strings.Join(tags, "\n"))
	return nil
}

type NoteStatsCmd struct{}

func (c *NoteStatsCmd) Run(ctx *Context) error {
	stats := ctx.Services.Notes.Stats(ctx.ctx())
	ctx.printf("Notes:  %d (%d pinned, %d this week)\n", stats.TotalNotes, stats.PinnedNotes, stats.RecentNotes)
	ctx.printf("Tags:   %d\n", stats.TotalTags)
	for _, color := range models.NoteColors {
		if n := stats.NotesByColor[color]; n > 0 {
			ctx.printf("  %-7s %d\n", color, n)
		}
	}
	if len(stats.TopTags) > 0 {
		ctx.println("Top tags:")
		for _, tc := range stats.TopTags {
			ctx.printf("  #%s %d\n", tc.Tag, tc.Count)
		}
	}
	return nil
}

type NoteExportCmd struct {
	Output string `help:"Write to this file instead of stdout." short:"o" type:"path"`
}

func (c *NoteExportCmd) Run(ctx *Context) error {
	return writeText(ctx, c.Output, ctx.Services.Notes.ExportText(ctx.ctx()))
}

type NoteImportCmd struct {
	File string `arg:"" help:"Plain-text file in the export format." type:"existingfile"`
}

func (c *NoteImportCmd) Run(ctx *Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.File, err)
	}
	n, err := ctx.Services.Notes.ImportText(ctx.ctx(), string(data))
	if err != nil {
		return fmt.Errorf("imported %d notes before failing: %w", n, err)
	}
	ctx.printf("Imported %d notes\n", n)
	return nil
}

// writeText prints text, or writes it to path when one is given
func writeText(ctx *Context, path, text string) error {
	if path == "" {
		ctx.printf("%s", text)
		return nil
	}
	if err := os.WriteFile(path, []byte(text), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	ctx.printf("Wrote %s\n", path)
	return nil
}
