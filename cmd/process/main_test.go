package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/aggregate"
	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/config"
	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/features"
	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/parquetio"
	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/schema"
)

const zoneFixture = `LocationID,Borough,Zone,service_zone,centroid_lat,centroid_lon
132,Queens,JFK Airport,Airports,40.6413,-73.7781
161,Manhattan,Midtown Center,Yellow Zone,40.7549,-73.9840
`

const weatherFixture = `datetime,temp,feelslike,precip,snow,snowdepth,windspeed,visibility,conditions
2021-10-04T08:00:00,18.0,18.0,0.0,0.0,0.0,10.0,16.0,Clear
`

func validTrip(i int) features.TripRecord {
	pickup := time.Date(2021, 10, 4, 8, i%50, 0, 0, time.UTC)
	return features.TripRecord{
		HvfhsLicenseNum:   "HV0003",
		RequestDatetime:   pickup.Add(-5 * time.Minute),
		OnSceneDatetime:   pickup.Add(-1 * time.Minute),
		PickupDatetime:    pickup,
		DropoffDatetime:   pickup.Add(30 * time.Minute),
		PULocationID:      161,
		DOLocationID:      132,
		TripMiles:         12,
		BasePassengerFare: 30,
		Tips:              3,
		DriverPay:         22,
	}
}

func TestProcessEndToEnd(t *testing.T) {
	root := t.TempDir()
	inDir := filepath.Join(root, "in")
	outDir := filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(inDir, 0755))

	zonePath := filepath.Join(root, "zones.csv")
	weatherPath := filepath.Join(root, "weather.csv")
	require.NoError(t, os.WriteFile(zonePath, []byte(zoneFixture), 0644))
	require.NoError(t, os.WriteFile(weatherPath, []byte(weatherFixture), 0644))

	// 100 synthetic records: 90 valid, 10 breaching the fare upper bound.
	trips := make([]features.TripRecord, 0, 100)
	for i := 0; i < 90; i++ {
		trips = append(trips, validTrip(i))
	}
	for i := 0; i < 10; i++ {
		trip := validTrip(i)
		trip.BasePassengerFare = 301 + float64(i)*100
		trips = append(trips, trip)
	}
	inPath := filepath.Join(inDir, "tlc_uber_2021-10.parquet")
	require.NoError(t, parquetio.WriteAll(inPath, trips))

	cfg := &config.Config{
		Paths: config.PathsConfig{
			InputDir:    inDir,
			OutputDir:   outDir,
			ZoneFile:    zonePath,
			WeatherFile: weatherPath,
		},
		Pipeline: config.PipelineConfig{Workers: 1},
		Filter:   config.FilterConfig{TipCap: 50, TipFareMultiple: 4},
	}

	summary, err := run(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.FilesOK)
	assert.Equal(t, 100, summary.RowsIn)
	assert.Equal(t, 90, summary.RowsOut)

	outPath := filepath.Join(outDir, "tlc_uber_2021-10.parquet")
	enriched, err := parquetio.ReadAll[features.EnrichedTrip](outPath)
	require.NoError(t, err)
	require.Len(t, enriched, 90)

	// The processed output classifies as processed input downstream.
	columns, err := parquetio.Columns(outPath)
	require.NoError(t, err)
	mode := schema.Classify(columns)
	assert.Equal(t, schema.ModeProcessed, mode)

	records, err := parquetio.ReadAll[aggregate.Record](outPath)
	require.NoError(t, err)
	tables := aggregate.AggregateFile(records, mode, columns)

	require.Len(t, tables.Executive, 1)
	assert.Equal(t, "2021-10-04", tables.Executive[0].PickupDate)
	assert.Equal(t, int64(90), tables.Executive[0].TotalTrips)
	assert.NotEmpty(t, tables.Economic, "processed input produces the economic grain")
}

func TestProcessSkipsFileMissingRequiredColumns(t *testing.T) {
	root := t.TempDir()
	inDir := filepath.Join(root, "in")
	require.NoError(t, os.MkdirAll(inDir, 0755))

	zonePath := filepath.Join(root, "zones.csv")
	weatherPath := filepath.Join(root, "weather.csv")
	require.NoError(t, os.WriteFile(zonePath, []byte(zoneFixture), 0644))
	require.NoError(t, os.WriteFile(weatherPath, []byte(weatherFixture), 0644))

	type partialTrip struct {
		PickupDatetime time.Time `parquet:"pickup_datetime,timestamp(microsecond)"`
		TripMiles      float64   `parquet:"trip_miles"`
	}
	bad := filepath.Join(inDir, "tlc_uber_2021-09.parquet")
	require.NoError(t, parquetio.WriteAll(bad, []partialTrip{{PickupDatetime: time.Now(), TripMiles: 2}}))

	good := filepath.Join(inDir, "tlc_uber_2021-10.parquet")
	require.NoError(t, parquetio.WriteAll(good, []features.TripRecord{validTrip(0)}))

	cfg := &config.Config{
		Paths: config.PathsConfig{
			InputDir:    inDir,
			OutputDir:   filepath.Join(root, "out"),
			ZoneFile:    zonePath,
			WeatherFile: weatherPath,
		},
		Pipeline: config.PipelineConfig{Workers: 1},
		Filter:   config.FilterConfig{TipCap: 50, TipFareMultiple: 4},
	}

	summary, err := run(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.FilesOK, "one bad file never aborts the run")
	assert.Equal(t, 1, summary.FilesFailed)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
