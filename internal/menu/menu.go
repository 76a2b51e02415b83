package menu

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// ErrUnavailable marks an item that is listed but not on offer.
var ErrUnavailable = errors.New("item unavailable")

// Category groups menu sections for kitchen timing.
type Category string

const (
	Drinks Category = "drinks"
	Snacks Category = "snacks"
	Mixed  Category = "mixed"
)

// Item is a single orderable menu entry. Price is in minor currency units.
type Item struct {
	Name      string
	Price     int64
	Available bool
	Section   string
	Category  Category
}

// Section is a titled group of items sharing one category.
type Section struct {
	Key      string
	Title    string
	TitlePT  string
	Category Category
	Items    []Item
}

// Catalog is the parsed menu. It is immutable after Parse.
type Catalog struct {
	Currency string
	sections []Section
	byName   map[string]Item
}

//go:embed menu.toml
var defaultMenu []byte

// Default returns the built-in Darsamo Bites menu.
func Default() (*Catalog, error) {
	return Parse(defaultMenu)
}

// Parse decodes a TOML menu document.
func Parse(data []byte) (*Catalog, error) {
	var raw struct {
		Currency string `toml:"currency"`
		Sections []struct {
			Key      string `toml:"key"`
			Title    string `toml:"title"`
			TitlePT  string `toml:"title_pt"`
			Category string `toml:"category"`
			Items    []struct {
				Name        string  `toml:"name"`
				Price       float64 `toml:"price"`
				Unavailable bool    `toml:"unavailable"`
			} `toml:"items"`
		} `toml:"sections"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse menu: %w", err)
	}

	cat := &Catalog{
		Currency: strings.TrimSpace(raw.Currency),
		byName:   make(map[string]Item),
	}
	for _, rs := range raw.Sections {
		category := Category(strings.TrimSpace(rs.Category))
		if category != Drinks && category != Snacks {
			return nil, fmt.Errorf("section %q: unknown category %q", rs.Key, rs.Category)
		}
		sec := Section{
			Key:      strings.TrimSpace(rs.Key),
			Title:    strings.TrimSpace(rs.Title),
			TitlePT:  strings.TrimSpace(rs.TitlePT),
			Category: category,
		}
		if sec.TitlePT == "" {
			sec.TitlePT = sec.Title
		}
		for _, ri := range rs.Items {
			name := strings.TrimSpace(ri.Name)
			if name == "" {
				return nil, fmt.Errorf("section %q: item without name", sec.Key)
			}
			if ri.Price < 0 {
				return nil, fmt.Errorf("item %q: negative price", name)
			}
			if _, dup := cat.byName[name]; dup {
				return nil, fmt.Errorf("item %q: listed twice", name)
			}
			item := Item{
				Name:      name,
				Price:     int64(math.Round(ri.Price * 100)),
				Available: !ri.Unavailable,
				Section:   sec.Key,
				Category:  category,
			}
			sec.Items = append(sec.Items, item)
			cat.byName[name] = item
		}
		cat.sections = append(cat.sections, sec)
	}
	return cat, nil
}

// Sections returns a copy of the menu sections in document order.
func (c *Catalog) Sections() []Section {
	out := make([]Section, len(c.sections))
	for i, s := range c.sections {
		out[i] = s
		out[i].Items = append([]Item(nil), s.Items...)
	}
	return out
}

// Items returns every item in menu order.
func (c *Catalog) Items() []Item {
	var out []Item
	for _, s := range c.sections {
		out = append(out, s.Items...)
	}
	return out
}

// Lookup finds an item by exact name.
func (c *Catalog) Lookup(name string) (Item, bool) {
	item, ok := c.byName[name]
	return item, ok
}

// CategoryOf reports the category of the section that lists name.
func (c *Catalog) CategoryOf(name string) (Category, bool) {
	item, ok := c.byName[name]
	if !ok {
		return "", false
	}
	return item.Category, true
}

// FormatPrice renders minor units as "70 MZN" or "3.50 MZN".
func FormatPrice(minor int64, currency string) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	var amount string
	if minor%100 == 0 {
		amount = fmt.Sprintf("%s%d", sign, minor/100)
	} else {
		amount = fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
	}
	if currency == "" {
		return amount
	}
	return amount + " " + currency
}
