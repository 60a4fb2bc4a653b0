package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/metaflow/internal/constants"
	"github.com/julianstephens/metaflow/internal/utils"
)

// noneValue clears an optional date in edit commands
const noneValue = "none"

func parseOptionalDay(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := utils.ParseDay(s, time.Local)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseDatePatch turns an edit flag into a patch value: nil leaves the date alone,
// "none" clears it.
func parseDatePatch(s *string) (**time.Time, error) {
	if s == nil {
		return nil, nil
	}
	var day *time.Time
	if !strings.EqualFold(*s, noneValue) {
		t, err := utils.ParseDay(*s, time.Local)
		if err != nil {
			return nil, err
		}
		day = &t
	}
	return &day, nil
}

func formatDay(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(constants.DateFormat)
}

func percent(f float64) string {
	return fmt.Sprintf("%.0f%%", f*100)
}

func check(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func joinTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return " #" + strings.Join(tags, " #")
}

func listPtr(s *string) *[]string {
	if s == nil {
		return nil
	}
	l := utils.SplitList(*s)
	return &l
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
