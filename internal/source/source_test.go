package source_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/phrazzld/appconfig/internal/settings"
	"github.com/phrazzld/appconfig/internal/source"
	"github.com/phrazzld/appconfig/internal/testutils"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time checks that every source satisfies the accessor contract.
var (
	_ settings.Source = source.Map(nil)
	_ settings.Source = (*source.Env)(nil)
	_ settings.Source = (*source.Viper)(nil)
	_ settings.Source = source.Chain()
)

func TestMap(t *testing.T) {
	original := map[string]string{"Port": "8080"}
	m := source.FromMap(original)
	original["Port"] = "9090"

	v, ok := m.Lookup("Port")
	assert.True(t, ok)
	assert.Equal(t, "8080", v, "FromMap must copy")

	_, ok = m.Lookup("port")
	assert.False(t, ok, "keys are case-sensitive")
}

func TestMapKeysSorted(t *testing.T) {
	m := source.Map{"Timeout": "1s", "Hosts": "a;b", "Port": "8080"}
	assert.Equal(t, []string{"Hosts", "Port", "Timeout"}, m.Keys())
	assert.Empty(t, source.Map(nil).Keys())
}

func TestChain(t *testing.T) {
	override := source.Map{"Port": "9090"}
	base := source.Map{"Port": "8080", "Host": "localhost"}
	c := source.Chain(override, nil, base)

	v, ok := c.Lookup("Port")
	assert.True(t, ok)
	assert.Equal(t, "9090", v)

	v, ok = c.Lookup("Host")
	assert.True(t, ok)
	assert.Equal(t, "localhost", v)

	_, ok = c.Lookup("Missing")
	assert.False(t, ok)
}

func TestSourceIsSettingsSource(t *testing.T) {
	assert.Equal(t, reflect.TypeFor[settings.Source](), reflect.TypeFor[source.Source]())

	fn := settings.SourceFunc(func(key string) (string, bool) {
		return "from-func", key == "Host"
	})
	var srcs []source.Source
	srcs = append(srcs, fn, source.Map{"Port": "8080"})

	s := settings.New(source.Chain(srcs...))
	assert.Equal(t, "from-func", s.Get("Host"))
	assert.Equal(t, "8080", s.Get("Port"))
}

func TestEnv(t *testing.T) {
	t.Setenv("APPCFG_CACHE_TTL", "30s")
	t.Setenv("APPCFG_EMPTY", "")

	e := source.NewEnv("APPCFG_")
	assert.Equal(t, "APPCFG_CACHE_TTL", e.VarName("Cache.TTL"))
	assert.Equal(t, "APPCFG_MAX_CONNS", e.VarName("max-conns"))

	v, ok := e.Lookup("Cache.TTL")
	assert.True(t, ok)
	assert.Equal(t, "30s", v)

	v, ok = e.Lookup("Empty")
	assert.True(t, ok, "a variable set to empty is present")
	assert.Equal(t, "", v)

	_, ok = e.Lookup("Unset.Key.For.Test")
	assert.False(t, ok)
}

func TestEnvFallbacks(t *testing.T) {
	t.Setenv("LEGACY_DB_URL", "postgres://app:s3cret@db/orders")

	logger, handler := testutils.NewRecordingLogger()
	e := source.NewEnv("APPCFG_",
		source.WithFallbacks("DatabaseURL", "DATABASE_URL_UNSET_FOR_TEST", "LEGACY_DB_URL"),
		source.WithEnvLogger(logger),
	)

	v, ok := e.Lookup("DatabaseURL")
	require.True(t, ok)
	assert.Equal(t, "postgres://app:s3cret@db/orders", v)

	rec, found := handler.Find("using legacy environment variable")
	require.True(t, found)
	assert.Equal(t, "LEGACY_DB_URL", rec.Attrs["used_var"])
	assert.Equal(t, "APPCFG_DATABASEURL", rec.Attrs["preferred_var"])
	assert.NotContains(t, rec.Attrs["value"], "s3cret")

	t.Setenv("APPCFG_DATABASEURL", "postgres://primary/orders")
	v, ok = e.Lookup("DatabaseURL")
	require.True(t, ok)
	assert.Equal(t, "postgres://primary/orders", v, "primary name wins over fallbacks")
}

func TestViper(t *testing.T) {
	v := viper.New()
	v.Set("app_settings.port", 8080)
	v.Set("app_settings.ratio", 1234.56)
	v.Set("app_settings.debug", true)
	v.Set("app_settings.hosts", []any{"a", "b", "c"})
	v.Set("app_settings.nested", map[string]any{"x": 1})
	v.Set("top", "level")

	src := source.NewViper(v, "app_settings")

	tests := []struct {
		key   string
		want  string
		found bool
	}{
		{key: "port", want: "8080", found: true},
		{key: "Port", want: "8080", found: true},
		{key: "ratio", want: "1234.56", found: true},
		{key: "debug", want: "true", found: true},
		{key: "hosts", want: "a;b;c", found: true},
		{key: "nested", found: false},
		{key: "missing", found: false},
		{key: "top", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := src.Lookup(tt.key)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	top := source.NewViper(v, "")
	got, ok := top.Lookup("top")
	assert.True(t, ok)
	assert.Equal(t, "level", got)

	assert.Equal(t, []string{"debug", "hosts", "nested.x", "port", "ratio"}, src.Keys())
	assert.Nil(t, source.NewViper(v, "connection_strings").Keys())
}

func TestViperFeedsSettings(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
app_settings:
  port: 8080
  hosts: [a, b, c]
`)))

	s := settings.New(source.NewViper(v, "app_settings"))

	port, err := settings.GetRequired[int](s, "port")
	require.NoError(t, err)
	assert.Equal(t, 8080, port)

	hosts, err := settings.SplitAndGet[string](s, "hosts")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, hosts)
}

const sampleDocument = `
app_settings:
  Port: 8080
  Ratio: 1234.56
  Octal: 010
  Enabled: true
  Hosts: [alpha, beta]
  Empty:
  Quoted: "  padded  "
connection_strings:
  Orders: postgres://app:s3cret@db:5432/orders
  Reports: "Server=db;Database=reports;Password=x;"
`

func TestReadDocument(t *testing.T) {
	doc, err := source.ReadDocument(strings.NewReader(sampleDocument))
	require.NoError(t, err)

	assert.Equal(t, source.Map{
		"Port":    "8080",
		"Ratio":   "1234.56",
		"Octal":   "010",
		"Enabled": "true",
		"Hosts":   "alpha;beta",
		"Empty":   "",
		"Quoted":  "  padded  ",
	}, doc.AppSettings)

	assert.Equal(t, "postgres://app:s3cret@db:5432/orders", doc.ConnectionStrings["Orders"])
	assert.Equal(t, "Server=db;Database=reports;Password=x;", doc.ConnectionStrings["Reports"])
}

func TestReadDocumentEmpty(t *testing.T) {
	doc, err := source.ReadDocument(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, doc.AppSettings)
	assert.Empty(t, doc.ConnectionStrings)
}

func TestReadDocumentErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name:    "invalid yaml",
			input:   "app_settings: [unclosed",
			wantErr: source.ErrDocumentParse,
		},
		{
			name:    "nested map",
			input:   "app_settings:\n  Server:\n    Port: 80\n",
			wantErr: source.ErrNestedValue,
		},
		{
			name:    "nested list",
			input:   "connection_strings:\n  Pools: [[a, b]]\n",
			wantErr: source.ErrNestedValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := source.ReadDocument(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestLoadDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleDocument), 0o600))

	doc, err := source.LoadDocument(path)
	require.NoError(t, err)

	s := settings.New(doc.AppSettings)
	ratio, err := settings.GetRequired[float64](s, "Ratio")
	require.NoError(t, err)
	assert.Equal(t, 1234.56, ratio)

	cs := settings.NewConnectionStrings(doc.ConnectionStrings)
	orders, err := cs.GetRequired("Orders")
	require.NoError(t, err)
	assert.Equal(t, "postgres://app:s3cret@db:5432/orders", orders)

	_, err = source.LoadDocument(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, source.ErrDocumentRead)
}
