package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(v float64) *float64 { return &v }

func TestLakhFormatter_Format(t *testing.T) {
	f := NewLakhFormatter("₹", "en-IN")

	tests := []struct {
		name string
		in   *float64
		want string
	}{
		{"absent", nil, "N/A"},
		{"zero", amount(0), "₹0"},
		{"below a lakh", amount(50000), "₹50,000"},
		{"just below a lakh", amount(99999), "₹99,999"},
		{"rounds to whole units", amount(1234.6), "₹1,235"},
		{"exactly one lakh", amount(100000), "₹1.0 Lakh"},
		{"two lakhs", amount(200000), "₹2.0 Lakhs"},
		{"fractional lakhs", amount(150000), "₹1.5 Lakhs"},
		{"rounds to one decimal", amount(123456), "₹1.2 Lakhs"},
		{"just above one lakh", amount(100001), "₹1.0 Lakhs"},
		{"tie rounds up", amount(125000), "₹1.3 Lakhs"},
		{"tie rounds up above three lakhs", amount(325000), "₹3.3 Lakhs"},
		{"tie with odd tenth", amount(175000), "₹1.8 Lakhs"},
		{"ten and a half lakhs", amount(1050000), "₹10.5 Lakhs"},
		{"negative", amount(-500), "-₹500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Format(tt.in))
		})
	}
}

func TestPlainFormatter_Format(t *testing.T) {
	f := NewPlainFormatter("$", "en-US")

	assert.Equal(t, "N/A", f.Format(nil))
	assert.Equal(t, "$0", f.Format(amount(0)))
	assert.Equal(t, "$250,000", f.Format(amount(250000)))
}

func TestNewFundingFormatter(t *testing.T) {
	f, err := NewFundingFormatter("", "₹", "en-IN")
	require.NoError(t, err)
	assert.IsType(t, &LakhFormatter{}, f)

	f, err = NewFundingFormatter("plain", "₹", "en-IN")
	require.NoError(t, err)
	assert.IsType(t, &PlainFormatter{}, f)

	_, err = NewFundingFormatter("crores", "₹", "en-IN")
	assert.Error(t, err)
}

func TestDates(t *testing.T) {
	ts := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	d := NewDates(nil)

	assert.Equal(t, "N/A", d.Date(nil))
	assert.Equal(t, "Mar 5, 2024", d.Date(&ts))
	assert.Equal(t, "N/A", d.MeetingTime(nil))
	assert.Equal(t, "Tuesday, 5 March 2024 at 02:30 pm", d.MeetingTime(&ts))

	ist := time.FixedZone("IST", 5*3600+1800)
	late := time.Date(2024, 3, 5, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "Mar 6, 2024", NewDates(ist).Date(&late))
}
