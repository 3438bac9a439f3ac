package settings

import (
	"strconv"
	"testing"
	"time"

	"github.com/phrazzld/appconfig/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapSource is a minimal in-memory store for tests.
type mapSource map[string]string

func (m mapSource) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func newTestSettings(values map[string]string) *Settings {
	return New(mapSource(values))
}

// blankValues are raw values that must behave exactly like an absent key.
var blankValues = map[string]string{
	"Empty": "",
	"Space": " ",
	"Tabs":  "\t\n  ",
}

func TestGetMissingReturnsZeroValue(t *testing.T) {
	s := newTestSettings(blankValues)

	for _, key := range []string{"Absent", "Empty", "Space", "Tabs"} {
		t.Run(key, func(t *testing.T) {
			i, err := Get[int](s, key)
			require.NoError(t, err)
			assert.Equal(t, 0, i)

			b, err := Get[bool](s, key)
			require.NoError(t, err)
			assert.False(t, b)

			str, err := Get[string](s, key)
			require.NoError(t, err)
			assert.Equal(t, "", str)

			d, err := Get[time.Duration](s, key)
			require.NoError(t, err)
			assert.Zero(t, d)

			// reference-like targets yield nil
			ptr, err := Get[*int](s, key)
			require.NoError(t, err)
			assert.Nil(t, ptr)

			raw, err := Get[[]byte](s, key)
			require.NoError(t, err)
			assert.Nil(t, raw)

			assert.Equal(t, "", s.Get(key))
		})
	}
}

func TestGetRequiredMissingFails(t *testing.T) {
	s := newTestSettings(blankValues)

	for _, key := range []string{"Absent", "Empty", "Space", "Tabs"} {
		t.Run(key, func(t *testing.T) {
			_, err := GetRequired[int](s, key)
			requireKind(t, err, KindMissingSetting)
			assert.Contains(t, err.Error(), strconv.Quote(key))

			_, err = GetRequired[*int](s, key)
			requireKind(t, err, KindMissingSetting)

			_, err = s.GetRequired(key)
			requireKind(t, err, KindMissingSetting)
		})
	}
}

func TestGetConverts(t *testing.T) {
	s := newTestSettings(map[string]string{
		"Port":    "8080",
		"Debug":   "true",
		"Timeout": "2s",
		"Name":    " orders ",
		"Retries": "3",
	})

	port, err := GetRequired[int](s, "Port")
	require.NoError(t, err)
	assert.Equal(t, 8080, port)

	debug, err := Get[bool](s, "Debug")
	require.NoError(t, err)
	assert.True(t, debug)

	timeout, err := GetRequired[time.Duration](s, "Timeout")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, timeout)

	retries, err := Get[*int](s, "Retries")
	require.NoError(t, err)
	require.NotNil(t, retries)
	assert.Equal(t, 3, *retries)

	name, err := s.GetRequired("Name")
	require.NoError(t, err)
	assert.Equal(t, " orders ", name)
}

func TestGetConversionErrors(t *testing.T) {
	s := newTestSettings(map[string]string{
		"Port":     "abc",
		"MaxItems": "99999999999999999999",
	})

	_, err := Get[int](s, "Port")
	requireKind(t, err, KindBadFormat)

	_, err = GetRequired[int](s, "Port")
	requireKind(t, err, KindBadFormat)

	_, err = Get[int32](s, "MaxItems")
	requireKind(t, err, KindOverflow)
	assert.Contains(t, err.Error(), "MaxItems")
	assert.Contains(t, err.Error(), "int32")
}

func TestStringOverloadMatchesGeneric(t *testing.T) {
	s := newTestSettings(map[string]string{
		"Plain":  "value",
		"Spaced": "  padded ",
		"Blank":  "   ",
	})

	for _, key := range []string{"Plain", "Spaced", "Blank", "Absent"} {
		t.Run(key, func(t *testing.T) {
			generic, err := Get[string](s, key)
			require.NoError(t, err)
			assert.Equal(t, generic, s.Get(key))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	ints := []int{0, 1, -1, 42, -2147483648, 9223372036854775807}
	for _, want := range ints {
		s := newTestSettings(map[string]string{"k": strconv.Itoa(want)})
		got, err := GetRequired[int](s, "k")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	for _, want := range []bool{true, false} {
		s := newTestSettings(map[string]string{"k": strconv.FormatBool(want)})
		got, err := GetRequired[bool](s, "k")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	for _, want := range []string{"a", "with space", "ünïcödé", "semi;colon"} {
		s := newTestSettings(map[string]string{"k": want})
		got, err := GetRequired[string](s, "k")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	for _, want := range []float64{0.1, 1234.56, -3.5e-10} {
		s := newTestSettings(map[string]string{"k": strconv.FormatFloat(want, 'g', -1, 64)})
		got, err := GetRequired[float64](s, "k")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestKeysAreCaseSensitive(t *testing.T) {
	s := newTestSettings(map[string]string{"Port": "8080"})

	_, err := GetRequired[int](s, "port")
	requireKind(t, err, KindMissingSetting)
}

func TestLookupExposesRawValue(t *testing.T) {
	s := newTestSettings(map[string]string{"Blank": "  "})

	v, ok := s.Lookup("Blank")
	assert.True(t, ok)
	assert.Equal(t, "  ", v)

	_, ok = s.Lookup("Absent")
	assert.False(t, ok)
}

func TestNilSourceIsEmpty(t *testing.T) {
	s := New(nil)

	v, err := Get[int](s, "anything")
	require.NoError(t, err)
	assert.Zero(t, v)

	_, err = s.GetRequired("anything")
	requireKind(t, err, KindMissingSetting)
}

func TestSourceFunc(t *testing.T) {
	calls := 0
	s := New(SourceFunc(func(key string) (string, bool) {
		calls++
		return "7", key == "Workers"
	}))

	n, err := GetRequired[int](s, "Workers")
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, 1, calls, "exactly one lookup per call")
}

func TestGetWithParser(t *testing.T) {
	s := newTestSettings(map[string]string{"Mode": "fast"})

	parseMode := func(raw string) (int, error) {
		if raw == "fast" {
			return 2, nil
		}
		return 0, strconv.ErrSyntax
	}

	v, err := GetRequiredWith[int](s, "Mode", parseMode)
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	v, err = GetWith[int](s, "Absent", parseMode)
	require.NoError(t, err)
	assert.Zero(t, v)

	_, err = GetRequiredWith[int](s, "Absent", parseMode)
	requireKind(t, err, KindMissingSetting)
}

func TestLogsDefaultedAndFailedLookups(t *testing.T) {
	logger, handler := testutils.NewRecordingLogger()
	s := New(mapSource{"Port": "abc"}, WithLogger(logger))

	_, _ = Get[int](s, "Absent")
	_, _ = Get[int](s, "Port")

	rec, ok := handler.Find("setting not set, using zero value")
	require.True(t, ok)
	assert.Equal(t, "Absent", rec.Attrs["key"])
	assert.Equal(t, "settings", rec.Attrs["component"])

	rec, ok = handler.Find("setting conversion failed")
	require.True(t, ok)
	assert.Equal(t, "Port", rec.Attrs["key"])
}

func TestConcurrentReads(t *testing.T) {
	s := newTestSettings(map[string]string{"Port": "8080", "Hosts": "a;b;c"})

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				p, err := GetRequired[int](s, "Port")
				assert.NoError(t, err)
				assert.Equal(t, 8080, p)

				hosts, err := SplitAndGet[string](s, "Hosts")
				assert.NoError(t, err)
				assert.Len(t, hosts, 3)
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
