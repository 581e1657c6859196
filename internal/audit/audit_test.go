package audit

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miles2542/Uber-NYC-TLC-Economics-Analysis/internal/parquetio"
)

// rawTrip mirrors the provider's original export schema.
type rawTrip struct {
	PickupDatetime    time.Time `parquet:"pickup_datetime,timestamp(microsecond)"`
	DropoffDatetime   time.Time `parquet:"dropoff_datetime,timestamp(microsecond)"`
	TripMiles         float64   `parquet:"trip_miles"`
	TripTime          int64     `parquet:"trip_time"`
	BasePassengerFare float64   `parquet:"base_passenger_fare"`
	DriverPay         float64   `parquet:"driver_pay"`
}

func writeRawFile(t *testing.T, trips []rawTrip) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tlc_uber_2019-01.parquet")
	require.NoError(t, parquetio.WriteAll(path, trips))
	return path
}

func TestAuditRawFileSynthesizesMetricColumns(t *testing.T) {
	pickup := time.Date(2019, 1, 10, 8, 0, 0, 0, time.UTC)
	trips := []rawTrip{
		{PickupDatetime: pickup, DropoffDatetime: pickup.Add(20 * time.Minute),
			TripMiles: 5, TripTime: 1200, BasePassengerFare: 20, DriverPay: 14},
		{PickupDatetime: pickup, DropoffDatetime: pickup.Add(10 * time.Minute),
			TripMiles: 10, TripTime: 600, BasePassengerFare: 35, DriverPay: 25},
	}

	rows, err := AuditFile(writeRawFile(t, trips))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "2019-01", row.Month)
	assert.Equal(t, int64(2), row.TotalRows)

	km := row.Numeric["trip_km"]
	require.NotNil(t, km, "virtual km column must be audited for raw input")
	assert.InDelta(t, 7.5*1.60934, km.Mean, 1e-9)
	assert.InDelta(t, 5*1.60934, km.Min, 1e-9)

	speed := row.Numeric["speed_kmh"]
	require.NotNil(t, speed, "virtual speed column must be audited for raw input")
	assert.InDelta(t, 5*1.60934/(1200.0/3600), speed.Min, 1e-9)

	assert.Nil(t, row.Numeric["total_rider_cost"], "derived column absent from raw input")
}

func TestAuditParadoxesRawRules(t *testing.T) {
	pickup := time.Date(2019, 1, 10, 8, 0, 0, 0, time.UTC)
	trips := []rawTrip{
		// teleport: over two miles in under a minute
		{PickupDatetime: pickup, DropoffDatetime: pickup.Add(30 * time.Second),
			TripMiles: 3, TripTime: 30, BasePassengerFare: 10, DriverPay: 8},
		// unpaid labor: meaningful distance, zero pay
		{PickupDatetime: pickup, DropoffDatetime: pickup.Add(20 * time.Minute),
			TripMiles: 4, TripTime: 1200, BasePassengerFare: 15, DriverPay: 0},
		// time travel: dropoff strictly before pickup
		{PickupDatetime: pickup, DropoffDatetime: pickup.Add(-5 * time.Minute),
			TripMiles: 2, TripTime: 300, BasePassengerFare: 12, DriverPay: 9},
		// clean record
		{PickupDatetime: pickup, DropoffDatetime: pickup.Add(15 * time.Minute),
			TripMiles: 3, TripTime: 900, BasePassengerFare: 14, DriverPay: 10},
	}

	rows, err := AuditFile(writeRawFile(t, trips))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	require.NotNil(t, row.ParadoxTeleport)
	assert.Equal(t, int64(1), *row.ParadoxTeleport)
	require.NotNil(t, row.ParadoxUnpaidLabor)
	assert.Equal(t, int64(1), *row.ParadoxUnpaidLabor)
	require.NotNil(t, row.ParadoxTimeTravel)
	assert.Equal(t, int64(1), *row.ParadoxTimeTravel)
}

func TestAuditProcessedRules(t *testing.T) {
	columns := []string{
		"pickup_datetime", "dropoff_datetime", "trip_km", "duration_min",
		"driver_pay", "weather_state", "is_bad_weather", "trip_archetype",
	}
	pickup := time.Date(2023, 6, 1, 9, 0, 0, 0, time.UTC)
	state := "clear_cloudy"
	flagOn, flagOff := int32(1), int32(0)
	records := []Record{
		{PickupDatetime: pickup, DropoffDatetime: pickup.Add(time.Hour),
			TripKm: ptrF(6), DurationMin: ptrF(0.5), DriverPay: ptrF(10),
			WeatherState: &state, IsBadWeather: &flagOn},
		{PickupDatetime: pickup, DropoffDatetime: pickup.Add(time.Hour),
			TripKm: ptrF(3), DurationMin: ptrF(12), DriverPay: ptrF(-1),
			IsBadWeather: &flagOff},
	}

	rows := auditRecords("tlc_uber_2023-06.parquet", records, columns)
	require.Len(t, rows, 1)
	row := rows[0]

	require.NotNil(t, row.ParadoxTeleport)
	assert.Equal(t, int64(1), *row.ParadoxTeleport, "6 km in half a minute")
	require.NotNil(t, row.ParadoxUnpaidLabor)
	assert.Equal(t, int64(1), *row.ParadoxUnpaidLabor, "3 km for negative pay")

	pay := row.Numeric["driver_pay"]
	require.NotNil(t, pay)
	assert.Equal(t, int64(1), pay.Negatives)
	assert.Equal(t, int64(0), pay.Zeros)

	assert.Equal(t, int64(1), row.CategoricalNulls["weather_state"], "second record has no state")
	assert.Equal(t, int64(1), row.FlagTrueCounts["is_bad_weather"])
	assert.NotContains(t, row.CategoricalNulls, "borough_flow_type", "column absent from file")
}

func TestAuditBucketsByMonth(t *testing.T) {
	jan := time.Date(2019, 1, 5, 8, 0, 0, 0, time.UTC)
	feb := time.Date(2019, 2, 5, 8, 0, 0, 0, time.UTC)
	trips := []rawTrip{
		{PickupDatetime: jan, DropoffDatetime: jan.Add(10 * time.Minute), TripMiles: 2, TripTime: 600, BasePassengerFare: 10, DriverPay: 7},
		{PickupDatetime: feb, DropoffDatetime: feb.Add(10 * time.Minute), TripMiles: 2, TripTime: 600, BasePassengerFare: 10, DriverPay: 7},
		{PickupDatetime: feb, DropoffDatetime: feb.Add(10 * time.Minute), TripMiles: 2, TripTime: 600, BasePassengerFare: 10, DriverPay: 7},
	}

	rows, err := AuditFile(writeRawFile(t, trips))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2019-01", rows[0].Month)
	assert.Equal(t, int64(1), rows[0].TotalRows)
	assert.Equal(t, "2019-02", rows[1].Month)
	assert.Equal(t, int64(2), rows[1].TotalRows)
}

func TestSummarizeStats(t *testing.T) {
	acc := &columnAcc{nulls: 2, values: []float64{0, -3, 5, 5, 8}}
	s := summarize(acc)

	assert.Equal(t, int64(2), s.Nulls)
	assert.Equal(t, int64(1), s.Zeros)
	assert.Equal(t, int64(1), s.Negatives)
	assert.InDelta(t, 3.0, s.Mean, 1e-9)
	assert.InDelta(t, -3.0, s.Min, 1e-9)
	assert.InDelta(t, 8.0, s.Max, 1e-9)
	assert.InDelta(t, 5.0, s.P50, 1e-9)
}

func ptrF(v float64) *float64 { return &v }
