package schedule

import (
	"fmt"
	"math"
	"time"

	"github.com/dukerupert/officecrm/internal/model"
)

// GridConfig describes the time axis of the day view.
type GridConfig struct {
	StepMin   int
	StartHour int
	EndHour   int
	RowHeight int
}

// DayGridConfig is the business-hours view: 06:00 through 19:00 in 15 minute rows.
func DayGridConfig() GridConfig {
	return GridConfig{StepMin: 15, StartHour: 6, EndHour: 19, RowHeight: 24}
}

// FullDayGridConfig covers the whole day, 00:00 through 23:45.
func FullDayGridConfig() GridConfig {
	return GridConfig{StepMin: 15, StartHour: 0, EndHour: 24, RowHeight: 24}
}

// GridPreset maps a preset name to its config. Unknown names get the business-hours grid.
func GridPreset(name string) GridConfig {
	if name == "full" {
		return FullDayGridConfig()
	}
	return DayGridConfig()
}

// normalize replaces out-of-range values with the business-hours defaults.
func (c GridConfig) normalize() GridConfig {
	def := DayGridConfig()
	if c.StepMin <= 0 || c.StepMin > 60 {
		c.StepMin = def.StepMin
	}
	if c.StartHour < 0 || c.StartHour > 23 || c.EndHour <= c.StartHour || c.EndHour > 24 {
		c.StartHour, c.EndHour = def.StartHour, def.EndHour
	}
	if c.RowHeight <= 0 {
		c.RowHeight = def.RowHeight
	}
	return c
}

// SlotLabel is one row of the time axis, as minutes past midnight with 24h and 12h labels.
type SlotLabel struct {
	Minutes int    `json:"minutes"`
	Label24 string `json:"label24"`
	Label12 string `json:"label12"`
}

// Block is one appointment placed on a consultant column.
type Block struct {
	Appt       model.Appt `json:"appt"`
	TopSlot    int        `json:"topSlot"`
	SlotSpan   int        `json:"slotSpan"`
	Top        int        `json:"top"`
	Height     int        `json:"height"`
	StartLabel string     `json:"startLabel"`
	Color      string     `json:"color"`
}

// Column holds the blocks of a single consultant.
type Column struct {
	Consultant model.Consultant `json:"consultant"`
	Blocks     []Block          `json:"blocks"`
}

// DayGrid is the laid-out day view: the time axis plus one column per consultant.
type DayGrid struct {
	Config  GridConfig  `json:"config"`
	Slots   []SlotLabel `json:"slots"`
	Columns []Column    `json:"columns"`
}

// Height is the pixel height of the full time axis.
func (g DayGrid) Height() int {
	return len(g.Slots) * g.Config.RowHeight
}

// Slots lists the row labels from StartHour through EndHour inclusive. A label at
// 24:00 is never produced.
func Slots(cfg GridConfig) []SlotLabel {
	cfg = cfg.normalize()
	var out []SlotLabel
	for m := cfg.StartHour * 60; m <= cfg.EndHour*60 && m < 24*60; m += cfg.StepMin {
		out = append(out, SlotLabel{
			Minutes: m,
			Label24: fmt.Sprintf("%02d:%02d", m/60, m%60),
			Label12: label12(m),
		})
	}
	return out
}

func label12(minutes int) string {
	return time.Date(1970, 1, 1, minutes/60, minutes%60, 0, 0, time.UTC).Format("3:04 PM")
}

// PlaceBlock computes the row offset and span of an appointment starting at the
// given UTC instant. Rows count from StartHour.
func PlaceBlock(start time.Time, durationMin int, cfg GridConfig) (topSlot, slotSpan int) {
	cfg = cfg.normalize()
	start = start.UTC()
	minutes := start.Hour()*60 + start.Minute()
	topSlot = int(math.Floor(float64(minutes-cfg.StartHour*60) / float64(cfg.StepMin)))
	slotSpan = int(math.Round(float64(durationMin) / float64(cfg.StepMin)))
	if slotSpan < 1 {
		slotSpan = 1
	}
	return topSlot, slotSpan
}

// BuildDayGrid lays appointments out in one column per consultant, in the order the
// consultants are given. Appointments without a consultant, or whose consultant has
// no column, are left out. Overlapping appointments simply overlap.
func BuildDayGrid(appts []model.Appt, consultants []model.Consultant, cfg GridConfig) DayGrid {
	cfg = cfg.normalize()
	grid := DayGrid{
		Config:  cfg,
		Slots:   Slots(cfg),
		Columns: make([]Column, len(consultants)),
	}

	index := make(map[string]int, len(consultants))
	for i, c := range consultants {
		grid.Columns[i] = Column{Consultant: c, Blocks: []Block{}}
		index[c.ID] = i
	}

	for _, a := range appts {
		if a.ConsultantID == nil {
			continue
		}
		col, ok := index[*a.ConsultantID]
		if !ok {
			continue
		}
		start, err := parseISO(a.StartISO)
		if err != nil {
			continue
		}
		top, span := PlaceBlock(start, a.DurationMin, cfg)
		grid.Columns[col].Blocks = append(grid.Columns[col].Blocks, Block{
			Appt:       a,
			TopSlot:    top,
			SlotSpan:   span,
			Top:        top * cfg.RowHeight,
			Height:     span * cfg.RowHeight,
			StartLabel: start.Format("3:04 PM"),
			Color:      a.Status.Color(),
		})
	}
	return grid
}

// BuildWeekGrid splits appointments into seven consecutive UTC day buckets starting
// at startDateISO. Appointments outside the window are dropped; order within a
// bucket follows the input order.
func BuildWeekGrid(appts []model.Appt, startDateISO string) []model.WeekDay {
	start, err := time.ParseInLocation(DateLayout, startDateISO, time.UTC)
	if err != nil {
		start = time.Now().UTC().Truncate(24 * time.Hour)
	}

	days := make([]model.WeekDay, 7)
	index := make(map[string]int, 7)
	for i := range days {
		d := start.AddDate(0, 0, i).Format(DateLayout)
		days[i] = model.WeekDay{DateISO: d, Appointments: []model.Appt{}}
		index[d] = i
	}

	for _, a := range appts {
		t, err := parseISO(a.StartISO)
		if err != nil {
			continue
		}
		i, ok := index[t.UTC().Format(DateLayout)]
		if !ok {
			continue
		}
		days[i].Appointments = append(days[i].Appointments, a)
	}
	return days
}

func parseISO(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
