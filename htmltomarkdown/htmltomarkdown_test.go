package htmltomarkdown_test

import (
	"testing"

	"github.com/kmathews/zalert"
	"github.com/kmathews/zalert/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Converter implements zalert.Converter at compile time.
var _ zalert.Converter = (*htmltomarkdown.Converter)(nil)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("renders a listing card as linked text", func(t *testing.T) {
		t.Parallel()

		html := `<table class="mw502"><tr><td>
<a href="https://www.zillow.com/homedetails/408-Manchester-Road-Auburn-NH-03032/87654321_zpid/">408 Manchester Road, Auburn, NH 03032</a>
<h5>$485,000</h5>
<p>3 bds | 2 ba | 1,850 sqft</p>
</td></tr></table>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "[408 Manchester Road, Auburn, NH 03032](https://www.zillow.com/homedetails/408-Manchester-Road-Auburn-NH-03032/87654321_zpid/)")
		assert.Contains(t, md, "$485,000")
		assert.Contains(t, md, "3 bds | 2 ba | 1,850 sqft")
	})

	t.Run("flattens layout tables instead of rendering them", func(t *testing.T) {
		t.Parallel()

		html := `<table><tr><td><h5>$300,000</h5></td></tr></table>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "$300,000")
		assert.NotContains(t, md, "---")
	})

	t.Run("renders headings", func(t *testing.T) {
		t.Parallel()

		html := `<h2>New homes for you</h2><p>1 new listing in Auburn, NH</p>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "## New homes for you")
		assert.Contains(t, md, "1 new listing in Auburn, NH")
	})

	t.Run("returns EINVALID for empty input", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		_, err := conv.Convert("   ")

		require.Error(t, err)
		assert.Equal(t, zalert.EINVALID, zalert.ErrorCode(err))
	})
}
