// Package refdata loads the static reference tables joined against every
// trip file: the taxi zone lookup and the hourly weather observations.
// Both are loaded once per run and shared read-only across files.
package refdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	pipeerrors "github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/errors"
)

// Zone is one taxi zone with its borough and centroid.
type Zone struct {
	ID          int
	Borough     string
	Name        string
	ServiceZone string
	CentroidLat float64
	CentroidLon float64
}

// ZoneIndex resolves zone IDs to zone attributes.
type ZoneIndex struct {
	zones map[int]Zone
}

// Lookup returns the zone for id and whether it exists.
func (z *ZoneIndex) Lookup(id int) (Zone, bool) {
	zone, ok := z.zones[id]
	return zone, ok
}

// Len returns the number of zones loaded.
func (z *ZoneIndex) Len() int { return len(z.zones) }

// Observation is one hourly weather record.
type Observation struct {
	Time       time.Time
	Temp       float64
	FeelsLike  float64
	Precip     float64
	Snow       float64
	SnowDepth  float64
	WindSpeed  float64
	Visibility float64
	Conditions string
}

// WeatherIndex resolves hour-truncated timestamps to observations.
type WeatherIndex struct {
	byHour map[time.Time]Observation
}

// At returns the observation for the hour containing t and whether one exists.
func (w *WeatherIndex) At(t time.Time) (Observation, bool) {
	obs, ok := w.byHour[t.Truncate(time.Hour)]
	return obs, ok
}

// Len returns the number of hourly observations loaded.
func (w *WeatherIndex) Len() int { return len(w.byHour) }

// Load reads both reference tables. Any failure is fatal for the run: the
// pipeline has no sound defaults for zone or weather data.
func Load(zonePath, weatherPath string) (*ZoneIndex, *WeatherIndex, error) {
	zones, err := loadZones(zonePath)
	if err != nil {
		return nil, nil, pipeerrors.NewRefDataError(zonePath, err)
	}

	weather, err := loadWeather(weatherPath)
	if err != nil {
		return nil, nil, pipeerrors.NewRefDataError(weatherPath, err)
	}

	return zones, weather, nil
}

func loadZones(path string) (*ZoneIndex, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	col, err := columnMap(header, "LocationID", "Borough", "Zone", "service_zone", "centroid_lat", "centroid_lon")
	if err != nil {
		return nil, err
	}

	idx := &ZoneIndex{zones: make(map[int]Zone, len(rows))}
	for i, row := range rows {
		id, err := strconv.Atoi(row[col["LocationID"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid LocationID %q", i+2, row[col["LocationID"]])
		}
		lat, err := strconv.ParseFloat(row[col["centroid_lat"]], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid centroid_lat %q", i+2, row[col["centroid_lat"]])
		}
		lon, err := strconv.ParseFloat(row[col["centroid_lon"]], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid centroid_lon %q", i+2, row[col["centroid_lon"]])
		}

		idx.zones[id] = Zone{
			ID:          id,
			Borough:     row[col["Borough"]],
			Name:        row[col["Zone"]],
			ServiceZone: row[col["service_zone"]],
			CentroidLat: lat,
			CentroidLon: lon,
		}
	}

	return idx, nil
}

// weatherTimeLayouts covers the timestamp shapes seen across the weather
// extracts.
var weatherTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func loadWeather(path string) (*WeatherIndex, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	col, err := columnMap(header, "datetime", "temp", "feelslike", "precip", "snow", "snowdepth", "windspeed", "visibility", "conditions")
	if err != nil {
		return nil, err
	}

	idx := &WeatherIndex{byHour: make(map[time.Time]Observation, len(rows))}
	for i, row := range rows {
		ts, err := parseWeatherTime(row[col["datetime"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}

		obs := Observation{
			Time:       ts,
			Conditions: row[col["conditions"]],
		}

		numeric := []struct {
			name string
			dst  *float64
		}{
			{"temp", &obs.Temp},
			{"feelslike", &obs.FeelsLike},
			{"precip", &obs.Precip},
			{"snow", &obs.Snow},
			{"snowdepth", &obs.SnowDepth},
			{"windspeed", &obs.WindSpeed},
			{"visibility", &obs.Visibility},
		}
		for _, n := range numeric {
			raw := row[col[n.name]]
			if raw == "" {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid %s %q", i+2, n.name, raw)
			}
			*n.dst = v
		}

		idx.byHour[ts.Truncate(time.Hour)] = obs
	}

	return idx, nil
}

func parseWeatherTime(raw string) (time.Time, error) {
	for _, layout := range weatherTimeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime %q", raw)
}

func readCSV(path string) ([][]string, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read row: %w", err)
		}
		rows = append(rows, row)
	}

	return rows, header, nil
}

func columnMap(header []string, required ...string) (map[string]int, error) {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return col, nil
}
