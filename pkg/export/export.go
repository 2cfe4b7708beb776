// Package export writes simulated routes in JSON and CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/kilianp07/gproute/core/evolve"
	"github.com/kilianp07/gproute/core/records"
)

// WriteJSON writes the routes to w in JSON format.
func WriteJSON(w io.Writer, routes []evolve.RouteRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(routes)
}

// WriteCSV writes one row per visit.
func WriteCSV(w io.Writer, routes []evolve.RouteRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"route", "position", "customer", "known_at", "arrival", "start", "departure"}); err != nil {
		return err
	}
	for _, r := range routes {
		for i, v := range r.Visits {
			rec := []string{
				strconv.Itoa(r.Route),
				strconv.Itoa(i),
				strconv.Itoa(v.Customer.ID),
				formatFloat(v.KnownAt),
				formatFloat(v.Arrival),
				formatFloat(v.Start),
				formatFloat(v.Departure),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// Write dispatches on format: "json" or "csv".
func Write(w io.Writer, format string, routes []evolve.RouteRecord) error {
	switch format {
	case "json", "":
		return WriteJSON(w, routes)
	case "csv":
		return WriteCSV(w, routes)
	default:
		return fmt.Errorf("export: unknown format %q", format)
	}
}

// RoutesFromRecords decodes last_route records ordered by route number.
// Records of other kinds are skipped.
func RoutesFromRecords(recs []records.Record) ([]evolve.RouteRecord, error) {
	var out []evolve.RouteRecord
	for _, rec := range recs {
		if rec.Kind != records.KindLastRoute {
			continue
		}
		var r evolve.RouteRecord
		if err := rec.Decode(&r); err != nil {
			return nil, fmt.Errorf("export: decode route: %w", err)
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Route < out[j].Route })
	return out, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
