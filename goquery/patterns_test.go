package goquery_test

import (
	"testing"

	"github.com/kmathews/zalert/goquery"
	"github.com/stretchr/testify/assert"
)

func TestCanonicalURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"https://www.zillow.com/homedetails/113449928_zpid/",
		goquery.CanonicalURL("113449928"))
}

func TestAddressFromURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "full slug",
			url:  "https://www.zillow.com/homedetails/408-Manchester-Rd-Auburn-NH-03032/87654321_zpid/",
			want: "408 Manchester Rd Auburn NH 03032",
		},
		{
			name: "slugless canonical URL",
			url:  "https://www.zillow.com/homedetails/113449928_zpid/",
			want: "",
		},
		{
			name: "unrelated URL",
			url:  "https://example.com/",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, goquery.AddressFromURL(tt.url))
		})
	}
}
