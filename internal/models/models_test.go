package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldPresence(t *testing.T) {
	var in struct {
		A Field[int64]  `json:"a"`
		B Field[int64]  `json:"b"`
		C Field[string] `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 7, "b": null}`), &in))

	assert.True(t, in.A.Set)
	assert.True(t, in.A.Has())
	assert.Equal(t, int64(7), in.A.Value)

	assert.True(t, in.B.Set)
	assert.True(t, in.B.Null)
	assert.Nil(t, in.B.Ptr())

	assert.False(t, in.C.Set)
	assert.Nil(t, in.C.Ptr())
}

func TestFieldRejectsWrongType(t *testing.T) {
	var in struct {
		A Field[int64] `json:"a"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"a": "x"}`), &in))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-01-10")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-10", d.String())

	d, err = ParseDate("2025-01-10T23:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-10", d.String())

	d, err = ParseDate("2025-01-10T23:00:00-05:00")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-10", d.String())

	ts, err := ParseTimestamp("2025-01-10T23:00:00-05:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.January, 11, 4, 0, 0, 0, time.UTC), ts)

	_, err = ParseDate("10/01/2025")
	assert.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2025-03-04"`), &d))
	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-03-04"`, string(out))

	out, err = json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2025-01-11"))
	assert.True(t, d.Equal(NewDate(2025, time.January, 11)))

	require.NoError(t, d.Scan([]byte("2025-01-12")))
	assert.Equal(t, "2025-01-12", d.String())

	require.NoError(t, d.Scan(time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-01-13", d.String())

	assert.Error(t, d.Scan(42))
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("07:30")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay("07:30:00"), tod)

	tod, err = ParseTimeOfDay("18:05:09")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay("18:05:09"), tod)

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)
}

func TestParseTimestamp(t *testing.T) {
	cases := []string{
		"2025-11-10T10:10:00Z",
		"2025-11-10T10:10:00+00:00",
		"2025-11-10T10:10:00",
		"2025-11-10T04:10:00-06:00",
	}
	want := time.Date(2025, 11, 10, 10, 10, 0, 0, time.UTC)
	for _, c := range cases {
		got, err := ParseTimestamp(c)
		require.NoError(t, err, c)
		assert.True(t, want.Equal(got), c)
	}

	_, err := ParseTimestamp("ayer")
	assert.Error(t, err)
}

func TestWeekWindow(t *testing.T) {
	tests := []struct {
		name      string
		day       Date
		wantStart string
		wantEnd   string
	}{
		{"monday", NewDate(2025, time.March, 3), "2025-03-03", "2025-03-08"},
		{"wednesday", NewDate(2025, time.March, 5), "2025-03-03", "2025-03-08"},
		{"saturday", NewDate(2025, time.March, 8), "2025-03-03", "2025-03-08"},
		{"sunday excluded from own window", NewDate(2025, time.March, 9), "2025-03-03", "2025-03-08"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := WeekWindow(tt.day)
			assert.Equal(t, tt.wantStart, start.String())
			assert.Equal(t, tt.wantEnd, end.String())
		})
	}
}

func TestMembershipActiveOn(t *testing.T) {
	m := &Membership{Estado: MembershipActive, FechaFin: NewDate(2025, time.January, 10)}

	assert.True(t, m.ActiveOn(NewDate(2025, time.January, 10)))
	assert.False(t, m.ActiveOn(NewDate(2025, time.January, 11)))
	assert.True(t, m.Covers(NewDate(2025, time.January, 10)))
	assert.False(t, m.Covers(NewDate(2025, time.January, 11)))

	m.Estado = MembershipInactive
	assert.False(t, m.ActiveOn(NewDate(2025, time.January, 1)))
}

func TestSignedAmount(t *testing.T) {
	hundred := decimal.NewFromInt(100)

	got, ok := SignedAmount(MovementFine, hundred.Neg())
	assert.True(t, ok)
	assert.True(t, got.Equal(hundred))

	got, ok = SignedAmount(MovementPayment, hundred)
	assert.True(t, ok)
	assert.True(t, got.Equal(hundred.Neg()))

	got, ok = SignedAmount(MovementAdjustment, hundred.Neg())
	assert.True(t, ok)
	assert.True(t, got.Equal(hundred.Neg()))

	_, ok = SignedAmount("refund", hundred)
	assert.False(t, ok)
}

func TestSubtotal(t *testing.T) {
	items := []OrderItem{
		{Cantidad: 2, PrecioUnitario: decimal.NewFromInt(250)},
		{Cantidad: 1, PrecioUnitario: decimal.NewFromInt(400)},
	}
	assert.True(t, Subtotal(items).Equal(decimal.NewFromInt(900)))
}

func TestDecimalMarshalsAsNumber(t *testing.T) {
	out, err := json.Marshal(Balance{ClientID: 1, Saldo: decimal.RequireFromString("50.5")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"client_id":1,"saldo":50.5}`, string(out))
}

func TestValidPaymentType(t *testing.T) {
	assert.True(t, ValidPaymentType("multa"))
	assert.False(t, ValidPaymentType("cash"))
}
