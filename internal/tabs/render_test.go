package tabs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTemplates() Templates {
	return Templates{
		Main: RowTemplate{
			{{Label: "Country", Marker: MarkerCountry}, {Label: "Category", Marker: MarkerCategory}, {Label: "Status", Value: "Live"}},
			{{Label: "Region", Value: "EMEA"}},
		},
		Section: RowTemplate{
			{{Label: "Owner", Value: "ops"}, {Label: "Tier", Value: "gold"}},
		},
		SectionTitle: "Details",
	}
}

func japan() Descriptor {
	return Descriptor{ID: 1, Title: "Japan", Attributes: map[string]string{
		AttrCountryCode: "jp",
		AttrCountryName: "Japan",
		AttrCategory:    "Asia",
	}}
}

func TestRender_HeadingPrefix(t *testing.T) {
	d := japan()
	assert.Equal(t, "Japan", Render(d, 0, testTemplates()).Heading)
	assert.Equal(t, "Tab 2 · Japan", Render(d, 1, testTemplates()).Heading)
	assert.Equal(t, "Tab 5 · Japan", Render(d, 4, testTemplates()).Heading)
}

func TestRender_ResolvesMarkers(t *testing.T) {
	p := Render(japan(), 0, testTemplates())
	require.Len(t, p.Main, 2)
	country := p.Main[0][0]
	assert.Equal(t, "Country", country.Label)
	assert.Equal(t, "🇯🇵", country.Image)
	assert.Equal(t, "Japan", country.Text)
	assert.Equal(t, MarkerCountry, country.Marker)

	assert.Equal(t, "Asia", p.Main[0][1].Text)
	assert.Equal(t, "Live", p.Main[0][2].Text)
	assert.Equal(t, "Details", p.SectionHeading)
	assert.Equal(t, 1, p.TabID)
}

func TestRender_PadsRowsToThreeColumns(t *testing.T) {
	p := Render(japan(), 0, testTemplates())
	for _, row := range append(p.Main, p.Section...) {
		assert.Len(t, row, Columns)
	}
	assert.Equal(t, "EMEA", p.Main[1][0].Text)
	assert.True(t, p.Main[1][1].Empty())
	assert.True(t, p.Main[1][2].Empty())
	assert.True(t, p.Section[0][2].Empty())
}

func TestRender_WideRowsAreKept(t *testing.T) {
	tpl := Templates{Main: RowTemplate{{{Value: "a"}, {Value: "b"}, {Value: "c"}, {Value: "d"}}}}
	p := Render(japan(), 0, tpl)
	require.Len(t, p.Main[0], 4)
	assert.Equal(t, "d", p.Main[0][3].Text)
}

func TestRender_MissingAttributesResolveEmpty(t *testing.T) {
	d := Descriptor{ID: 7, Title: "X", Attributes: map[string]string{}}
	p := Render(d, 3, testTemplates())
	country := p.Main[0][0]
	assert.Equal(t, "Country", country.Label)
	assert.Empty(t, country.Image)
	assert.Empty(t, country.Text)
	assert.Empty(t, p.Main[0][1].Text)

	nilAttrs := Render(Descriptor{ID: 8, Title: "Y"}, 0, testTemplates())
	assert.Empty(t, nilAttrs.Main[0][0].Text)
}

func TestRender_Deterministic(t *testing.T) {
	a := Render(japan(), 2, testTemplates())
	b := Render(japan(), 2, testTemplates())
	assert.Equal(t, a, b)
}

func TestRender_EmptyTemplates(t *testing.T) {
	p := Render(japan(), 0, Templates{})
	assert.Empty(t, p.Main)
	assert.Empty(t, p.Section)
	assert.Equal(t, "Japan", p.Heading)
}

func TestFlag(t *testing.T) {
	assert.Equal(t, "🇺🇸", Flag("US"))
	assert.Equal(t, "🇧🇷", Flag(" br "))
	assert.Empty(t, Flag(""))
	assert.Empty(t, Flag("USA"))
	assert.Empty(t, Flag("1A"))
}

func TestParseMarker(t *testing.T) {
	for in, want := range map[string]Marker{"": MarkerNone, "none": MarkerNone, "Country": MarkerCountry, "category": MarkerCategory} {
		got, err := ParseMarker(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseMarker("planet")
	assert.Error(t, err)
}

func TestPanelClone_IsDeep(t *testing.T) {
	p := Render(japan(), 0, testTemplates())
	c := p.Clone()
	c.Main[0][0].Text = "changed"
	assert.Equal(t, "Japan", p.Main[0][0].Text)
}
