package announcer

import (
	"strings"

	"productbot/pkg/domain"
)

const (
	ellipsis = "…"

	// urlLength is the fixed length of any link after the service shortens it.
	urlLength = 23
)

func render(title, price, url string, hashtags []string) string {
	lines := []string{
		"【🤖おすすめ商品紹介】",
		"",
		"📚 " + title,
		"",
		"💰 " + price,
		"",
		"👇 詳しくはこちら",
		url,
		"",
		strings.Join(hashtags, " "),
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// runeLength returns the weight of r: 1 for Latin and other narrow
// scripts, 2 for everything else (CJK, emoji, ...).
func runeLength(r rune) int {
	switch {
	case r <= 0x10FF,
		r >= 0x2000 && r <= 0x200D,
		r >= 0x2010 && r <= 0x201F,
		r >= 0x2032 && r <= 0x2037:
		return 1
	default:
		return 2
	}
}

func stringLength(s string) int {
	n := 0
	for _, r := range s {
		n += runeLength(r)
	}

	return n
}

func isLink(s string) bool {
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}

// Length returns the length of text as the posting service counts it against
// its limit: narrow characters weigh 1, wide ones 2 and every link 23.
func Length(text string) int {
	n := stringLength(text)
	for _, word := range strings.Fields(text) {
		if isLink(word) {
			n += urlLength - stringLength(word)
		}
	}

	return n
}

// Compose renders the post text for p. When Length of the text exceeds
// maxLength the title is shortened with an ellipsis; price, url and hashtags
// are never cut. A maxLength of 0 disables shortening.
func Compose(p domain.Product, hashtags []string, maxLength int) string {
	text := render(p.Title, p.Price, p.URL, hashtags)
	n := Length(text)
	if maxLength <= 0 || n <= maxLength {
		return text
	}

	title := []rune(strings.TrimSpace(p.Title))
	excess := n - maxLength + stringLength(ellipsis)
	keep := len(title)
	for keep > 0 && excess > 0 {
		keep--
		excess -= runeLength(title[keep])
	}

	// links inside the title do not shrink rune by rune
	for ; keep > 0; keep-- {
		shortened := render(strings.TrimSpace(string(title[:keep]))+ellipsis, p.Price, p.URL, hashtags)
		if Length(shortened) <= maxLength {
			return shortened
		}
	}

	// nothing sensible left of the title; let the service decide
	return text
}
