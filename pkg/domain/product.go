package domain

const (
	// NoPrice is used when a candidate carries no price at any level of nesting.
	NoPrice = "no price available"
	// NoTitle is used when a candidate carries no display title.
	NoTitle = "タイトル情報なし"
	// NoURL is used when a candidate carries no detail page URL.
	NoURL = "#"
)

// Product is the candidate selected for a single post. It is created once by
// the finder and consumed once by the announcer.
type Product struct {
	// Title is the display title of the item.
	Title string `json:"title"`
	// URL is the detail page URL, including the partner tag.
	URL string `json:"url"`
	// Price is the human-formatted price (e.g. "¥1,000") or NoPrice.
	Price string `json:"price"`
}
