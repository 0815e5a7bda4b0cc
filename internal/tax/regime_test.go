package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupRegime(t *testing.T) {
	assert.Equal(t, []string{RegimeAgeBanded, RegimeNew2023, RegimeNew2023Rebate7L}, Regimes())

	for _, name := range Regimes() {
		r, err := LookupRegime(name)
		require.NoError(t, err)
		assert.Equal(t, name, r.Name)
		assert.NoError(t, r.Validate())
	}

	_, err := LookupRegime("flat-tax")
	assert.ErrorIs(t, err, ErrUnknownRegime)
}

func TestLookupRegime_ReturnsIndependentCopies(t *testing.T) {
	a, err := LookupRegime(RegimeNew2023)
	require.NoError(t, err)
	a.Bands[0].Table.Brackets[0].Rate = percent(50)

	b, err := LookupRegime(RegimeNew2023)
	require.NoError(t, err)
	assert.True(t, b.Bands[0].Table.Brackets[0].Rate.IsZero())
}

func TestRegime_TableFor(t *testing.T) {
	r, err := LookupRegime(RegimeAgeBanded)
	require.NoError(t, err)

	for age, want := range map[int]string{
		-5:  "below 60",
		0:   "below 60",
		59:  "below 60",
		60:  "senior",
		79:  "senior",
		80:  "super senior",
		104: "super senior",
	} {
		assert.Equal(t, want, r.TableFor(age).Name, "age %d", age)
	}
}

func TestSlabTable_Validate(t *testing.T) {
	tests := []struct {
		name  string
		table SlabTable
	}{
		{name: "empty", table: SlabTable{Name: "empty"}},
		{
			name: "decreasing rate",
			table: SlabTable{Name: "decreasing", Brackets: []Bracket{
				bounded("a", 100, 10),
				bounded("b", 100, 5),
				unbounded("c", 30),
			}},
		},
		{
			name: "unbounded in the middle",
			table: SlabTable{Name: "middle", Brackets: []Bracket{
				unbounded("a", 0),
				unbounded("b", 30),
			}},
		},
		{
			name: "last bracket bounded",
			table: SlabTable{Name: "bounded", Brackets: []Bracket{
				bounded("a", 100, 0),
				bounded("b", 100, 30),
			}},
		},
		{
			name: "zero width",
			table: SlabTable{Name: "zero", Brackets: []Bracket{
				bounded("a", 0, 0),
				unbounded("b", 30),
			}},
		},
		{
			name: "negative rate",
			table: SlabTable{Name: "negative", Brackets: []Bracket{
				{Label: "a", Width: decimal.NewFromInt(100), Rate: percent(-5)},
				unbounded("b", 30),
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.table.Validate(), ErrInvalidTable)
		})
	}
}

func TestNewCalculator_RejectsBadRegime(t *testing.T) {
	r, err := LookupRegime(RegimeAgeBanded)
	require.NoError(t, err)
	r.Bands[1].MinAge = 0

	_, err = NewCalculator(r)
	assert.Error(t, err)

	r, err = LookupRegime(RegimeNew2023)
	require.NoError(t, err)
	r.Bands[0].Table.Brackets[3].Rate = percent(1)
	_, err = NewCalculator(r)
	assert.ErrorIs(t, err, ErrInvalidTable)

	_, err = NewCalculator(Regime{Name: "empty"})
	assert.Error(t, err)
}
