package pagination

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestTokenRoundTrip(t *testing.T) {
	for _, offset := range []int{0, 1, 25, 99, 123456} {
		got, err := DecodeToken(EncodeToken(offset))
		require.NoError(t, err)
		assert.Equal(t, offset, got)
	}
}

func TestDecodeTokenRejectsGarbage(t *testing.T) {
	for _, token := range []string{"!!!", EncodeToken(-3), "YWJj"} {
		_, err := DecodeToken(token)
		assert.Error(t, err, token)
	}
}

func TestFollowingTokensVisitsEveryItemOnce(t *testing.T) {
	for _, n := range []int{0, 1, 7, 25, 26, 100} {
		for _, limit := range []int{1, 3, 25, 100} {
			items := seq(n)
			var seen []int
			token := ""
			for pages := 0; ; pages++ {
				require.Less(t, pages, n+2, "pagination did not terminate")
				page := Paginate(items, limit, token)
				seen = append(seen, page.Items...)
				if page.NextPageToken == nil {
					break
				}
				token = *page.NextPageToken
			}
			if n == 0 {
				assert.Empty(t, seen)
				continue
			}
			assert.Equal(t, items, seen, "n=%d limit=%d", n, limit)
		}
	}
}

func TestPaginateBoundary(t *testing.T) {
	items := seq(10)
	page := Paginate(items, 25, EncodeToken(len(items)))
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Nil(t, page.NextPageToken)

	page = Paginate(items, 25, EncodeToken(500))
	assert.Empty(t, page.Items)
	assert.Nil(t, page.NextPageToken)
}

func TestPaginateRemainder(t *testing.T) {
	page := Paginate(seq(10), 4, EncodeToken(8))
	assert.Equal(t, []int{8, 9}, page.Items)
	assert.Nil(t, page.NextPageToken)
}

func TestPaginateBadTokenStartsAtZero(t *testing.T) {
	page := Paginate(seq(5), 2, "not-a-token")
	assert.Equal(t, []int{0, 1}, page.Items)
	require.NotNil(t, page.NextPageToken)
	assert.Equal(t, EncodeToken(2), *page.NextPageToken)
}

func TestPaginateDoesNotAliasInput(t *testing.T) {
	items := seq(3)
	page := Paginate(items, 2, "")
	page.Items[0] = 42
	assert.Equal(t, 0, items[0])
}

func TestParseListParams(t *testing.T) {
	cases := []struct {
		query string
		limit int
	}{
		{"", 25},
		{"limit=0", 1},
		{"limit=-4", 1},
		{"limit=1000", 100},
		{"limit=abc", 25},
		{"limit=40", 40},
		{"limit=2.5", 25},
	}
	for _, tc := range cases {
		q, err := url.ParseQuery(tc.query)
		require.NoError(t, err)
		assert.Equal(t, tc.limit, ParseListParams(q).Limit, tc.query)
	}

	q, _ := url.ParseQuery("pageToken=abc%2Fdef")
	assert.Equal(t, "abc/def", ParseListParams(q).PageToken)
}
