//-------------------------------------------------------------------------
//
// Customer Churn Warehouse
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package dims

import (
	"sort"
	"strconv"

	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/pipeline/clean"
)

// ResolveLocations builds at most one location row per zip code from
// the per-customer location source, left-joining the population
// reference. Zips already present in the dimension are skipped so
// growth stays append-only and surrogate keys are never reassigned.
func ResolveLocations(locations, populations []clean.Record, existingZips map[string]bool, alloc KeyAllocator) []LocationRow {
	populationByZip := make(map[string]int64, len(populations))
	for _, p := range populations {
		populationByZip[p.String("zip_code")] = int64(p.Int("population"))
	}

	firstByZip := make(map[string]clean.Record, len(locations))
	zips := make([]string, 0, len(locations))
	for _, l := range locations {
		zip := ZipOf(l)
		if _, seen := firstByZip[zip]; seen {
			continue
		}
		firstByZip[zip] = l
		zips = append(zips, zip)
	}
	// allocation order is the zip order, not the provider's order
	sort.Strings(zips)

	rows := make([]LocationRow, 0, len(zips))
	for _, zip := range zips {
		if existingZips[zip] {
			continue
		}
		l := firstByZip[zip]

		row := LocationRow{
			LocationID: alloc.Next(),
			ZipCode:    zip,
			Country:    l.String("country"),
			State:      l.String("state"),
			City:       l.String("city"),
			Latitude:   l.Float("latitude"),
			Longitude:  l.Float("longitude"),
		}
		if population, ok := populationByZip[zip]; ok {
			row.Population = &population
		}
		rows = append(rows, row)
	}

	return rows
}

// ZipOf returns a cleaned location record's zip code, tolerating
// numeric zips that lost their leading zeros upstream.
func ZipOf(record clean.Record) string {
	zip := record.String("zip_code")
	if len(zip) >= 5 {
		return zip
	}
	if n, err := strconv.Atoi(zip); err == nil && n > 0 {
		for len(zip) < 5 {
			zip = "0" + zip
		}
	}
	return zip
}
