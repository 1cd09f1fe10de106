package paapi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeSearchItems_PriceNesting(t *testing.T) {
	tests := []struct {
		name string
		item string
	}{
		{"no offers", `{"ASIN":"A1"}`},
		{"null offers", `{"ASIN":"A1","Offers":null}`},
		{"no listings", `{"ASIN":"A1","Offers":{}}`},
		{"empty listings", `{"ASIN":"A1","Offers":{"Listings":[]}}`},
		{"listing without price", `{"ASIN":"A1","Offers":{"Listings":[{"Id":"x"}]}}`},
		{"price without display amount", `{"ASIN":"A1","Offers":{"Listings":[{"Price":{"Amount":1000}}]}}`},
		{"empty display amount", `{"ASIN":"A1","Offers":{"Listings":[{"Price":{"DisplayAmount":""}}]}}`},
		{"numeric display amount", `{"ASIN":"A1","Offers":{"Listings":[{"Price":{"DisplayAmount":1000}}]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := decodeSearchItems([]byte(`{"SearchResult":{"Items":[` + tt.item + `]}}`))
			require.NoError(t, err)
			require.Len(t, items, 1)
			require.Equal(t, "A1", items[0].ID)
			require.Nil(t, items[0].Price)
		})
	}
}

func TestDecodeSearchItems_FullItem(t *testing.T) {
	body := `{
		"SearchResult": {
			"TotalResultCount": 2,
			"SearchURL": "https://www.amazon.co.jp/s?k=go",
			"Items": [
				{
					"ASIN": "4873117526",
					"DetailPageURL": "https://www.amazon.co.jp/dp/4873117526?tag=bot-22",
					"ItemInfo": {"Title": {"DisplayValue": "入門 Python 3", "Label": "Title", "Locale": "ja_JP"}},
					"Offers": {"Listings": [
						{"Id": "l1", "Price": {"Amount": 4070, "Currency": "JPY", "DisplayAmount": "￥4,070"}},
						{"Id": "l2", "Price": {"Amount": 3000, "Currency": "JPY", "DisplayAmount": "￥3,000"}}
					]}
				},
				{"ASIN": "B0", "ItemInfo": {"Title": null}}
			]
		}
	}`

	items, err := decodeSearchItems([]byte(body))
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.Equal(t, "4873117526", items[0].ID)
	require.Equal(t, "入門 Python 3", *items[0].Title)
	require.Equal(t, "https://www.amazon.co.jp/dp/4873117526?tag=bot-22", *items[0].URL)
	require.Equal(t, "￥4,070", *items[0].Price)

	require.Equal(t, "B0", items[1].ID)
	require.Nil(t, items[1].Title)
	require.Nil(t, items[1].URL)
	require.Nil(t, items[1].Price)
}

func TestDecodeSearchItems_EmptyShapes(t *testing.T) {
	for _, body := range []string{`{}`, `{"SearchResult":{}}`, `{"SearchResult":null}`, `{"SearchResult":{"Items":[]}}`} {
		items, err := decodeSearchItems([]byte(body))
		require.NoError(t, err, body)
		require.Empty(t, items, body)
	}
}

func TestDecodeSearchItems_Malformed(t *testing.T) {
	for _, body := range []string{``, `[]`, `not json`, `{"SearchResult":{"Items":[{"ASIN":"A1"`} {
		_, err := decodeSearchItems([]byte(body))
		require.Error(t, err, body)
	}
}

func TestDecodeAPIError(t *testing.T) {
	code, msg := decodeAPIError([]byte(`{"__type":"com.amazon.paapi5#ErrorData","Errors":[` +
		`{"Code":"InvalidSignature","Message":"The request has not been correctly signed."},` +
		`{"Code":"Other","Message":"ignored"}]}`))
	require.Equal(t, "InvalidSignature", code)
	require.Equal(t, "The request has not been correctly signed.", msg)

	code, msg = decodeAPIError([]byte(`<html>bad gateway</html>`))
	require.Empty(t, code)
	require.Empty(t, msg)
}
