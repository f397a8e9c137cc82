// Package board shapes flat load rows into the time-slot/lane grid the
// dashboard renders.
package board

import (
	"sort"
	"strconv"
	"strings"

	"github.com/badziek/logitrans-app/internal/models"
)

const (
	// DefaultTimeSlot is the card synthesized when no loads exist.
	DefaultTimeSlot = "17:00"
	// PlaceholderTrailer stands in for a missing trailer number.
	PlaceholderTrailer = "00000000"
	// DefaultStatus is the header status when a lane has no rows.
	DefaultStatus = "PL"
)

// FixedLanes is the display lane set. Lanes outside it are dropped;
// lanes without data render empty.
var FixedLanes = []string{"L01", "L02", "L03"}

// Header carries the column-level fields shared by all rows of one
// (time_slot, lane) pair.
type Header struct {
	Trailer  string
	Status   string
	TimeSlot string
	ShipDate string
}

// Slot is one time-slot card: its trailer summary, the fixed lanes
// with their sorted rows, and one inferred header per lane.
type Slot struct {
	TimeSlot    string
	TrailerText string
	ShipDate    string
	Lanes       map[string][]models.Load
	Headers     map[string]Header
}

// Board maps time slots to cards. Order lists the slot keys sorted so
// templates render deterministically.
type Board struct {
	Slots map[string]*Slot
	Order []string
}

// Assemble builds the board from load rows. Rows must arrive
// pre-sorted by (time_slot, lane, seq): the slot-level ship date is
// the first non-empty value in row order, and headers come from each
// lane's first row. An empty input yields a single default card so
// the dashboard always has something to show.
func Assemble(rows []models.Load) *Board {
	slots := map[string]*Slot{}
	trailers := map[string]map[string]struct{}{}

	for _, r := range rows {
		ts := r.TimeSlot
		if ts == "" {
			ts = "-"
		}

		slot, ok := slots[ts]
		if !ok {
			slot = &Slot{
				TimeSlot: ts,
				Lanes:    map[string][]models.Load{},
				Headers:  map[string]Header{},
			}
			slots[ts] = slot
			trailers[ts] = map[string]struct{}{}
		}

		if slot.ShipDate == "" && r.ShipDate != "" {
			slot.ShipDate = r.ShipDate
		}
		if r.TrailerNo != "" {
			trailers[ts][r.TrailerNo] = struct{}{}
		}

		lane := strings.ToUpper(r.Lane)
		if lane == "" {
			lane = FixedLanes[0]
		}
		slot.Lanes[lane] = append(slot.Lanes[lane], r)
	}

	if len(slots) == 0 {
		slots[DefaultTimeSlot] = &Slot{
			TimeSlot: DefaultTimeSlot,
			Lanes:    map[string][]models.Load{},
			Headers:  map[string]Header{},
		}
		trailers[DefaultTimeSlot] = map[string]struct{}{}
	}

	order := make([]string, 0, len(slots))
	for ts := range slots {
		order = append(order, ts)
	}
	sort.Strings(order)

	for ts, slot := range slots {
		slot.TrailerText = trailerText(trailers[ts])

		lanes := map[string][]models.Load{}
		for _, ln := range FixedLanes {
			lane := slot.Lanes[ln]
			sortLane(lane)
			lanes[ln] = lane
			slot.Headers[ln] = inferHeader(lane, ts, slot.ShipDate)
		}
		slot.Lanes = lanes
	}

	return &Board{Slots: slots, Order: order}
}

func trailerText(set map[string]struct{}) string {
	if len(set) == 0 {
		return PlaceholderTrailer
	}
	names := make([]string, 0, len(set))
	for t := range set {
		names = append(names, t)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func inferHeader(lane []models.Load, timeSlot, slotShipDate string) Header {
	if len(lane) == 0 {
		return Header{
			Trailer:  PlaceholderTrailer,
			Status:   DefaultStatus,
			TimeSlot: timeSlot,
			ShipDate: slotShipDate,
		}
	}

	first := lane[0]
	hdr := Header{
		Trailer:  first.TrailerNo,
		Status:   first.Status,
		TimeSlot: first.TimeSlot,
		ShipDate: first.ShipDate,
	}
	if hdr.Trailer == "" {
		hdr.Trailer = PlaceholderTrailer
	}
	if hdr.Status == "" {
		hdr.Status = DefaultStatus
	}
	if hdr.TimeSlot == "" {
		hdr.TimeSlot = timeSlot
	}
	return hdr
}

func sortLane(lane []models.Load) {
	sort.SliceStable(lane, func(i, j int) bool {
		ti, vi := SeqKey(lane[i].Seq)
		tj, vj := SeqKey(lane[j].Seq)
		if ti != tj {
			return ti < tj
		}
		return vi < vj
	})
}

// SeqKey turns any representation of a sequence value into a
// deterministic sort key: parsed integers order ascending (tier 0),
// missing values follow (tier 1), and anything unconvertible lands
// last (tier 2). It never fails, whatever the input.
func SeqKey(v interface{}) (tier int, val int) {
	switch x := v.(type) {
	case nil:
		return 1, 0
	case *int:
		if x == nil {
			return 1, 0
		}
		return 0, *x
	case int:
		return 0, x
	case int8:
		return 0, int(x)
	case int16:
		return 0, int(x)
	case int32:
		return 0, int(x)
	case int64:
		return 0, int(x)
	case uint:
		return 0, int(x)
	case float64:
		return 0, int(x)
	case float32:
		return 0, int(x)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 2, 0
		}
		return 0, n
	default:
		return 2, 0
	}
}
