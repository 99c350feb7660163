// Package market reads the published sugar price bulletin so UIs can
// prefill the price-per-tonne field on revenue observations. The engine
// never writes this value itself; it is reference data only.
package market

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ReferencePrice is one season row from the bulletin.
type ReferencePrice struct {
	Season        string  `json:"season"`
	PricePerTonne float64 `json:"price_per_tonne"`
}

var ErrNoBulletin = errors.New("no price bulletin configured")

type Client struct {
	url  string
	http *http.Client
}

func New(url string) *Client {
	return &Client{url: url, http: &http.Client{Timeout: 15 * time.Second}}
}

// Latest fetches the bulletin and returns the most recent season's price.
func (c *Client) Latest() (*ReferencePrice, error) {
	if c.url == "" {
		return nil, ErrNoBulletin
	}
	resp, err := c.http.Get(c.url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bulletin fetch: status %d", resp.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, err
	}
	prices, err := Parse(strings.NewReader(string(b)))
	if err != nil {
		return nil, err
	}
	return &prices[len(prices)-1], nil
}

// Parse extracts season/price rows from the bulletin HTML. Expected shape
// is a table whose rows carry the season in the first cell and the price
// per tonne in the last numeric cell.
func Parse(r io.Reader) ([]ReferencePrice, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	var out []ReferencePrice
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		season := strings.TrimSpace(cells.First().Text())
		if season == "" {
			return
		}
		var price float64
		found := false
		cells.Each(func(i int, cell *goquery.Selection) {
			if i == 0 {
				return
			}
			if v, ok := parseAmount(cell.Text()); ok {
				price = v
				found = true
			}
		})
		if found && price > 0 {
			out = append(out, ReferencePrice{Season: season, PricePerTonne: price})
		}
	})
	if len(out) == 0 {
		return nil, errors.New("no price rows found in bulletin")
	}
	return out, nil
}

func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "Rs")
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
