package dataset

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCoerceNumeric(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want float64
		ok   bool
	}{
		{"plain number", "12.5", 12.5, true},
		{"thousands separator", "1,234.56", 1234.56, true},
		{"embedded whitespace", " 8.25 ", 8.25, true},
		{"embedded line break", "14\n.75", 14.75, true},
		{"hyphen placeholder", "-", 0, false},
		{"empty cell", "", 0, false},
		{"text", "N/A", 0, false},
		{"negative", "-3.1", -3.1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CoerceNumeric(tt.cell)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestCanonicalFor(t *testing.T) {
	t.Run("known cell", func(t *testing.T) {
		name, ok := CanonicalFor(RateHeaderRules, "K\nN\nA\nB\nO\nC\nE")
		require.True(t, ok)
		assert.Equal(t, "Eco Bank", name)
	})

	t.Run("unknown cell", func(t *testing.T) {
		_, ok := CanonicalFor(RateHeaderRules, "garbage")
		assert.False(t, ok)
	})

	t.Run("duplicate garbled cell resolves to later rule", func(t *testing.T) {
		rules := []HeaderRule{
			{"X", "First"},
			{"X", "Second"},
		}
		name, ok := CanonicalFor(rules, "X")
		require.True(t, ok)
		assert.Equal(t, "Second", name)
	})
}

func TestNormalize(t *testing.T) {
	opts := NormalizeOptions{
		HeaderRow:      1,
		DataStart:      2,
		DropLeading:    1,
		CategoryColumn: "Sector",
		TypeColumn:     "Rate_Type",
		HeaderRules: []HeaderRule{
			{"A\nL\nP", "Alpha Bank"},
			{"B\nE\nT", "Beta Bank"},
		},
	}

	t.Run("full pipeline", func(t *testing.T) {
		raw := RawTable{
			{"title row"},
			{"junk", "", "", "A\nL\nP", "???", "B\nE\nT"},
			{"junk", "Agriculture", "Prime", "12,5", "9", "8.0"},
			{"junk", "", "Max", "-", "9", "15\n.25"},
			{"", "", "", "", "", ""},
			{"junk", "Mining", "Prime", "x", "9", "30.1"},
		}

		n := NewNormalizer(opts, testLogger())
		table, err := n.Normalize(raw)
		require.NoError(t, err)

		assert.Equal(t, []string{"Sector", "Rate_Type", "Alpha Bank", "Beta Bank"}, table.Header)
		require.Len(t, table.Records, 3)

		// forward-filled category
		assert.Equal(t, "Agriculture", table.Records[1][0])
		assert.Equal(t, "Mining", table.Records[2][0])

		// numeric coercion, junk stripped
		assert.Equal(t, "125", table.Records[0][2])
		assert.Equal(t, "8", table.Records[0][3])

		// hyphen and text become explicit missing values
		assert.Equal(t, "", table.Records[1][2])
		assert.Equal(t, "15.25", table.Records[1][3])
		assert.Equal(t, "", table.Records[2][2])
	})

	t.Run("duplicate canonical keeps last raw column", func(t *testing.T) {
		dup := opts
		dup.HeaderRules = []HeaderRule{
			{"A\nL\nP", "Alpha Bank"},
			{"A2", "Alpha Bank"},
		}
		raw := RawTable{
			{""},
			{"junk", "", "", "A\nL\nP", "A2"},
			{"junk", "Agri", "Prime", "1.0", "2.0"},
		}

		n := NewNormalizer(dup, testLogger())
		table, err := n.Normalize(raw)
		require.NoError(t, err)

		assert.Equal(t, []string{"Sector", "Rate_Type", "Alpha Bank"}, table.Header)
		assert.Equal(t, "2", table.Records[0][2])
	})

	t.Run("too short", func(t *testing.T) {
		n := NewNormalizer(opts, testLogger())
		_, err := n.Normalize(RawTable{{"only"}})
		assert.Error(t, err)
	})

	t.Run("deterministic", func(t *testing.T) {
		raw := RawTable{
			{""},
			{"junk", "", "", "A\nL\nP", "B\nE\nT"},
			{"junk", "Agri", "Prime", "1.0", "2.0"},
		}
		n := NewNormalizer(opts, testLogger())

		first, err := n.Normalize(raw)
		require.NoError(t, err)
		second, err := n.Normalize(raw)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}
