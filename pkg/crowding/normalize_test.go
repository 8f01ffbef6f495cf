package crowding

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/crowding/pkg/ctdf"
)

func rawBody(body string) *ctdf.RawCrowdingRecord {
	return &ctdf.RawCrowdingRecord{Body: []byte(body), StatusCode: 200}
}

func TestNormalize(t *testing.T) {
	t.Run("single train", func(t *testing.T) {
		record, err := Normalize(rawBody(`{"dataAvailable":true,"timeUtc":"2025-07-14T09:30:00Z","trains":{"T1":[10,25.5,null,"unknown",130,-5]}}`), 6)
		require.NoError(t, err)

		assert.False(t, record.NoData)
		assert.Equal(t, "T1", record.VehicleID)
		assert.Equal(t, 1, record.TrainCount)
		assert.False(t, record.LengthMismatch)
		assert.Equal(t, 2, record.ClampedCount)
		require.Len(t, record.Carriages, 6)

		assert.Equal(t, 10.0, *record.Carriages[0].Percentage)
		assert.Equal(t, 25.5, *record.Carriages[1].Percentage)
		assert.False(t, record.Carriages[2].Known())
		assert.False(t, record.Carriages[3].Known())

		assert.Equal(t, 100.0, *record.Carriages[4].Percentage)
		assert.True(t, record.Carriages[4].Clamped)
		assert.Equal(t, 0.0, *record.Carriages[5].Percentage)
		assert.True(t, record.Carriages[5].Clamped)

		require.NotNil(t, record.UpstreamTime)
		assert.True(t, record.UpstreamTime.Equal(time.Date(2025, 7, 14, 9, 30, 0, 0, time.UTC)))
	})

	t.Run("lowest vehicle id is chosen", func(t *testing.T) {
		body := `{"trains":{"T9":[90],"T10":[50],"A1":[10,20]}}`

		for i := 0; i < 5; i++ {
			record, err := Normalize(rawBody(body), 2)
			require.NoError(t, err)

			assert.Equal(t, "A1", record.VehicleID)
			assert.Equal(t, 3, record.TrainCount)
			assert.Len(t, record.Carriages, 2)
		}
	})

	t.Run("length mismatch", func(t *testing.T) {
		record, err := Normalize(rawBody(`{"trains":{"T1":[10,20,30]}}`), 8)
		require.NoError(t, err)

		assert.True(t, record.LengthMismatch)
		assert.Len(t, record.Carriages, 3)
	})

	t.Run("invalid upstream time is ignored", func(t *testing.T) {
		record, err := Normalize(rawBody(`{"timeUtc":"yesterday","trains":{"T1":[10]}}`), 1)
		require.NoError(t, err)

		assert.Nil(t, record.UpstreamTime)
	})
}

func TestNormalizeNoData(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "whitespace body", body: "  \n"},
		{name: "null", body: "null"},
		{name: "data unavailable", body: `{"dataAvailable":false,"trains":{"T1":[10]}}`},
		{name: "missing trains", body: `{"dataAvailable":true}`},
		{name: "null trains", body: `{"trains":null}`},
		{name: "empty trains", body: `{"trains":{}}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			record, err := Normalize(rawBody(test.body), 8)
			require.NoError(t, err)

			assert.True(t, record.NoData)
			assert.Empty(t, record.Carriages)
			assert.Zero(t, record.TrainCount)
		})
	}

	t.Run("nil record", func(t *testing.T) {
		record, err := Normalize(nil, 8)
		require.NoError(t, err)
		assert.True(t, record.NoData)
	})
}

func TestNormalizeSkipsMalformedTrains(t *testing.T) {
	record, err := Normalize(rawBody(`{"trains":{"A0":null,"B5":{"car":10},"T1":[10,70]}}`), 2)
	require.NoError(t, err)

	assert.False(t, record.NoData)
	assert.Equal(t, "T1", record.VehicleID)
	assert.Equal(t, 1, record.TrainCount)
	assert.Equal(t, []string{"A0", "B5"}, record.SkippedTrains)
	require.Len(t, record.Carriages, 2)
	assert.Equal(t, 70.0, *record.Carriages[1].Percentage)
	assert.False(t, record.LengthMismatch)

	_, err = Normalize(rawBody(`{"trains":{"T2":"full","T1":null}}`), 2)
	assert.EqualError(t, err, "normalizing crowding payload (MalformedPayload): no train has a carriage array (vehicles T1, T2)")
}

func TestNormalizeMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "<html>busy</html>"},
		{name: "truncated", body: `{"trains":{"T1":[10,`},
		{name: "array", body: `[10,20]`},
		{name: "string", body: `"crowded"`},
		{name: "trains array", body: `{"trains":[[10,20]]}`},
		{name: "train not array", body: `{"trains":{"T1":{"car":10}}}`},
		{name: "train null", body: `{"trains":{"T1":null}}`},
		{name: "every train unusable", body: `{"trains":{"T1":null,"T2":"full","T3":{"car":10}}}`},
		{name: "data available not boolean", body: `{"dataAvailable":"yes","trains":{}}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			record, err := Normalize(rawBody(test.body), 8)
			assert.Nil(t, record)

			var normalizationError *NormalizationError
			require.ErrorAs(t, err, &normalizationError)
			assert.Equal(t, ErrorKindMalformedPayload, normalizationError.Kind)
		})
	}
}
