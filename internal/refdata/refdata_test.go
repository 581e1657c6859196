package refdata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pipeerrors "github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/errors"
)

const zoneCSV = `LocationID,Borough,Zone,service_zone,centroid_lat,centroid_lon
1,EWR,Newark Airport,EWR,40.6895,-74.1745
132,Queens,JFK Airport,Airports,40.6413,-73.7781
161,Manhattan,Midtown Center,Yellow Zone,40.7549,-73.9840
`

const weatherCSV = `datetime,temp,feelslike,precip,snow,snowdepth,windspeed,visibility,conditions
2019-01-01T00:00:00,3.9,0.6,0.0,0.0,0.0,22.0,16.0,Clear
2019-01-01T01:00:00,3.4,0.1,1.2,0.0,0.0,25.9,14.5,Rain
`

func writeFixtures(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	zonePath := filepath.Join(dir, "zones.csv")
	weatherPath := filepath.Join(dir, "weather.csv")
	require.NoError(t, os.WriteFile(zonePath, []byte(zoneCSV), 0644))
	require.NoError(t, os.WriteFile(weatherPath, []byte(weatherCSV), 0644))
	return zonePath, weatherPath
}

func TestLoad(t *testing.T) {
	zonePath, weatherPath := writeFixtures(t)

	zones, weather, err := Load(zonePath, weatherPath)
	require.NoError(t, err)
	assert.Equal(t, 3, zones.Len())
	assert.Equal(t, 2, weather.Len())

	zone, ok := zones.Lookup(132)
	require.True(t, ok)
	assert.Equal(t, "Queens", zone.Borough)
	assert.Equal(t, "JFK Airport", zone.Name)
	assert.InDelta(t, 40.6413, zone.CentroidLat, 1e-9)

	_, ok = zones.Lookup(999)
	assert.False(t, ok)
}

func TestWeatherIndexFloorsToHour(t *testing.T) {
	zonePath, weatherPath := writeFixtures(t)
	_, weather, err := Load(zonePath, weatherPath)
	require.NoError(t, err)

	// 01:45 must resolve to the 01:00 observation.
	obs, ok := weather.At(time.Date(2019, 1, 1, 1, 45, 12, 0, time.UTC))
	require.True(t, ok)
	assert.InDelta(t, 1.2, obs.Precip, 1e-9)
	assert.Equal(t, "Rain", obs.Conditions)

	_, ok = weather.At(time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC))
	assert.False(t, ok)
}

func TestLoadMissingZoneFileIsFatal(t *testing.T) {
	_, weatherPath := writeFixtures(t)

	_, _, err := Load("/nonexistent/zones.csv", weatherPath)
	require.Error(t, err)

	var refErr *pipeerrors.RefDataError
	assert.True(t, errors.As(err, &refErr))
	assert.True(t, pipeerrors.IsFatal(err))
}

func TestLoadMalformedZoneRow(t *testing.T) {
	dir := t.TempDir()
	zonePath := filepath.Join(dir, "zones.csv")
	weatherPath := filepath.Join(dir, "weather.csv")
	bad := "LocationID,Borough,Zone,service_zone,centroid_lat,centroid_lon\nnot_a_number,Queens,JFK,Airports,1,2\n"
	require.NoError(t, os.WriteFile(zonePath, []byte(bad), 0644))
	require.NoError(t, os.WriteFile(weatherPath, []byte(weatherCSV), 0644))

	_, _, err := Load(zonePath, weatherPath)
	require.Error(t, err)
	assert.True(t, pipeerrors.IsFatal(err))
}

func TestLoadMissingWeatherColumn(t *testing.T) {
	dir := t.TempDir()
	zonePath := filepath.Join(dir, "zones.csv")
	weatherPath := filepath.Join(dir, "weather.csv")
	require.NoError(t, os.WriteFile(zonePath, []byte(zoneCSV), 0644))
	require.NoError(t, os.WriteFile(weatherPath, []byte("datetime,temp,feelslike\n2019-01-01T00:00:00,3.9,1.2\n"), 0644))

	_, _, err := Load(zonePath, weatherPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "precip")
}
