package types

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	t.Run("CalendarForm", func(t *testing.T) {
		var d Date
		require.NoError(t, json.Unmarshal([]byte(`"2024-12-23"`), &d))
		assert.True(t, d.Valid)
		assert.Equal(t, NewDate(2024, time.December, 23), d)

		out, err := json.Marshal(d)
		require.NoError(t, err)
		assert.JSONEq(t, `"2024-12-23"`, string(out))
	})

	t.Run("TimestampKeepsWrittenDate", func(t *testing.T) {
		var d Date
		require.NoError(t, json.Unmarshal([]byte(`"2024-12-23T00:00:00.000Z"`), &d))
		assert.Equal(t, "2024-12-23", d.String())

		require.NoError(t, json.Unmarshal([]byte(`"2024-12-23T23:30:00-05:00"`), &d))
		assert.Equal(t, "2024-12-23", d.String())
	})

	t.Run("Null", func(t *testing.T) {
		d := NewDate(2024, time.January, 1)
		require.NoError(t, json.Unmarshal([]byte(`null`), &d))
		assert.False(t, d.Valid)

		out, err := json.Marshal(Date{})
		require.NoError(t, err)
		assert.Equal(t, "null", string(out))
	})

	t.Run("EmptyStringIsNull", func(t *testing.T) {
		var d Date
		require.NoError(t, json.Unmarshal([]byte(`""`), &d))
		assert.False(t, d.Valid)
	})

	t.Run("Invalid", func(t *testing.T) {
		var d Date
		err := json.Unmarshal([]byte(`"23/12/2024"`), &d)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))

		err = json.Unmarshal([]byte(`20241223`), &d)
		require.Error(t, err)
	})
}

func TestDateDatabase(t *testing.T) {
	t.Run("ScanDate", func(t *testing.T) {
		var d Date
		require.NoError(t, d.ScanDate(pgtype.Date{Time: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), Valid: true}))
		assert.Equal(t, NewDate(2024, time.March, 5), d)

		require.NoError(t, d.ScanDate(pgtype.Date{}))
		assert.False(t, d.Valid)
	})

	t.Run("Scan", func(t *testing.T) {
		var d Date
		require.NoError(t, d.Scan(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)))
		assert.Equal(t, "2024-03-05", d.String())

		require.NoError(t, d.Scan("2023-01-02"))
		assert.Equal(t, "2023-01-02", d.String())

		require.NoError(t, d.Scan(nil))
		assert.False(t, d.Valid)

		assert.Error(t, d.Scan(42))
	})

	t.Run("Value", func(t *testing.T) {
		v, err := Date{}.Value()
		require.NoError(t, err)
		assert.Nil(t, v)

		v, err = NewDate(2024, time.December, 23).Value()
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 12, 23, 0, 0, 0, 0, time.UTC), v)

		pd, err := NewDate(2024, time.December, 23).DateValue()
		require.NoError(t, err)
		assert.True(t, pd.Valid)
	})
}
