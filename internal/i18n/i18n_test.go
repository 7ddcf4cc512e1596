package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogsParse(t *testing.T) {
	catalogs, err := loadCatalogs()
	require.NoError(t, err)
	require.Len(t, catalogs, len(supported))

	en := catalogs[supported[0]]
	for _, tag := range supported[1:] {
		for key := range en {
			assert.Contains(t, catalogs[tag], key, "locale %s is missing %s", tag, key)
		}
	}
}

func TestNew_MatchesLocales(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"en", "en"},
		{"es-MX", "es"},
		{"de-AT", "de"},
		{"fr", "en"},
		{"", "en"},
		{"not a locale", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.in).Locale())
		})
	}
}

func TestT_FormatsAndFallsBack(t *testing.T) {
	es := New("es")
	assert.Equal(t, "Contador", es.T("tab.counter"))
	assert.Equal(t, "Paso 1 de 3: Cuenta", es.T("signup.step", 1, 3, es.T("signup.steps.account")))
	assert.Equal(t, "no.such.key", es.T("no.such.key"))

	es.msgs = map[string]string{}
	assert.Equal(t, "Counter", es.T("tab.counter"), "missing keys fall back to English")
}

func TestNumber_UsesLocaleGrouping(t *testing.T) {
	assert.Equal(t, "1,234,567", New("en").Number(1234567))
	assert.Equal(t, "1.234.567", New("de").Number(1234567))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "English", New("en").DisplayName())
	assert.Equal(t, "Deutsch", New("de").DisplayName())
}

func TestLocalesAndNext(t *testing.T) {
	assert.Equal(t, []string{"en", "es", "de"}, Locales())
	assert.Equal(t, "es", Next("en"))
	assert.Equal(t, "de", Next("es-ES"))
	assert.Equal(t, "en", Next("de"))
	assert.Equal(t, "es", Next("zz"))
}

func TestFlattenRejectsNonStrings(t *testing.T) {
	_, err := parseCatalog([]byte("a:\n  b: [1, 2]\n"))
	assert.Error(t, err)
}

func TestKeysSorted(t *testing.T) {
	keys := Keys()
	require.NotEmpty(t, keys)
	assert.IsIncreasing(t, keys)
}
