package keywords

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jotbook-dev/jotbook/internal/model"
)

func TestMatch_Defaults(t *testing.T) {
	table := Default()

	tests := []struct {
		text string
		want model.Category
		hit  bool
	}{
		{"西門町吃晚餐 420元", model.CategoryFood, true},
		{"搭高鐵去台中", model.CategoryTransport, true},
		{"蝦皮下單了", model.CategoryShopping, true},
		{"晚上看電影", model.CategoryEntertainment, true},
		{"牙醫掛號", model.CategoryHealth, true},
		{"補習班學費", model.CategoryEducation, true},
		{"訂了民宿", model.CategoryTravel, true},
		{"LUNCH with the team", model.CategoryFood, true},
		{"完全無關的一句話", model.CategoryOther, false},
	}
	for _, tt := range tests {
		got, hit := table.Match(tt.text)
		assert.Equal(t, tt.want, got, "text: %s", tt.text)
		assert.Equal(t, tt.hit, hit, "text: %s", tt.text)
	}
}

func TestMatch_FirstRuleWins(t *testing.T) {
	table := Default()

	// Both food (吃) and travel (飯店) keywords appear; food is earlier
	// in the table so it wins.
	got, hit := table.Match("在飯店吃早餐")
	require.True(t, hit)
	assert.Equal(t, model.CategoryFood, got)
}

func TestMarksExpense(t *testing.T) {
	table := Default()

	assert.True(t, table.MarksExpense("晚餐花了不少"))
	assert.True(t, table.MarksExpense("NT$300"))
	assert.True(t, table.MarksExpense("I paid for everyone"))
	assert.False(t, table.MarksExpense("明天見"))
}

func TestLoadSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")

	custom := NewTable(
		[]Rule{{Category: model.CategoryFood, Keywords: []string{"滷肉飯"}}},
		[]string{"花費"},
	)
	require.NoError(t, custom.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	got, hit := loaded.Match("午餐吃滷肉飯")
	require.True(t, hit)
	assert.Equal(t, model.CategoryFood, got)

	// Custom tables replace the defaults rather than extending them.
	_, hit = loaded.Match("搭高鐵")
	assert.False(t, hit)
	assert.True(t, loaded.MarksExpense("這次花費很高"))
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	table, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	got, hit := table.Match("吃晚餐")
	require.True(t, hit)
	assert.Equal(t, model.CategoryFood, got)
}

func TestLoad_RejectsUnknownCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	bad := NewTable([]Rule{{Category: "snacks", Keywords: []string{"x"}}}, nil)
	require.NoError(t, bad.Save(path))

	_, err := Load(path)
	assert.ErrorContains(t, err, "unknown category")
}
