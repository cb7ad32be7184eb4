package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "0 B", FormatBytes(0))
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.00 KB", FormatBytes(1024))
	assert.Equal(t, "1.50 KB", FormatBytes(1536))
	assert.Equal(t, "1.00 MB", FormatBytes(1024*1024))
	assert.Equal(t, "1.00 GB", FormatBytes(1024*1024*1024))
	assert.Equal(t, "2.50 GB", FormatBytes(int64(2.5*1024*1024*1024)))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0s", FormatDuration(0))
	assert.Equal(t, "500ns", FormatDuration(500*time.Nanosecond))
	assert.Equal(t, "250µs", FormatDuration(250*time.Microsecond))
	assert.Equal(t, "1.5ms", FormatDuration(1500*time.Microsecond))
	assert.Equal(t, "2.25s", FormatDuration(2250*time.Millisecond))
	assert.Equal(t, "1m 30s", FormatDuration(90*time.Second))
	assert.Equal(t, "2m", FormatDuration(2*time.Minute))
	assert.Equal(t, "1h 1m 5s", FormatDuration(time.Hour+time.Minute+5*time.Second))
	assert.Equal(t, "2h", FormatDuration(2*time.Hour))
	assert.Equal(t, "-2.25s", FormatDuration(-2250*time.Millisecond))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "999", FormatNumber(999))
	assert.Equal(t, "1,000", FormatNumber(1000))
	assert.Equal(t, "123,456,789", FormatNumber(123456789))
	assert.Equal(t, "-1,000", FormatNumber(-1000))
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "0/s", FormatRate(100, 0))
	assert.Equal(t, "100.00/s", FormatRate(100, time.Second))
	assert.Equal(t, "1.00K/s", FormatRate(1000, time.Second))
	assert.Equal(t, "2.00M/s", FormatRate(4000000, 2*time.Second))
}
