// Package variety holds the sugarcane/intercrop variety catalog. The
// catalog is reference data for validating variety ids on cycle creation;
// it loads from an xlsx workbook when one is configured and falls back to
// a built-in list.
package variety

import (
	"errors"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	CategorySugarcane = "sugarcane"
	CategoryIntercrop = "intercrop"
)

type Variety struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"` // sugarcane|intercrop
}

type Catalog struct {
	byID map[string]Variety
	all  []Variety
}

// Builtin returns the default catalog: common M-series and R-series cane
// varieties plus the usual interrow crops.
func Builtin() *Catalog {
	return build([]Variety{
		{ID: "m1176-77", Name: "M 1176/77", Category: CategorySugarcane},
		{ID: "m2256-88", Name: "M 2256/88", Category: CategorySugarcane},
		{ID: "m1400-86", Name: "M 1400/86", Category: CategorySugarcane},
		{ID: "r570", Name: "R570", Category: CategorySugarcane},
		{ID: "r579", Name: "R579", Category: CategorySugarcane},
		{ID: "potato", Name: "Potato", Category: CategoryIntercrop},
		{ID: "bean", Name: "Bean", Category: CategoryIntercrop},
		{ID: "maize", Name: "Maize", Category: CategoryIntercrop},
		{ID: "onion", Name: "Onion", Category: CategoryIntercrop},
	})
}

// LoadXLSX reads varieties from the first sheet of a workbook with
// ID/Name/Category columns. Header aliases are accepted the same way the
// planner config loaders do it.
func LoadXLSX(path string) (*Catalog, error) {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer x.Close()

	sheet := x.GetSheetName(0)
	rows, err := x.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, errors.New("variety workbook has no data rows")
	}

	norm := func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "")
	}
	hmap := map[string]int{}
	for i, h := range rows[0] {
		hmap[norm(h)] = i
	}
	findAny := func(keys ...string) int {
		for _, k := range keys {
			if idx, ok := hmap[k]; ok {
				return idx
			}
		}
		return -1
	}
	cID := findAny("id", "varietyid", "variety_id")
	cName := findAny("name", "variety", "varietyname")
	cCat := findAny("category", "type", "crop")
	if cID == -1 || cName == -1 {
		return nil, errors.New("variety workbook missing ID/Name columns")
	}

	var vs []Variety
	get := func(row []string, idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}
	for _, row := range rows[1:] {
		id := get(row, cID)
		if id == "" {
			continue
		}
		cat := strings.ToLower(get(row, cCat))
		if cat != CategoryIntercrop {
			cat = CategorySugarcane
		}
		vs = append(vs, Variety{ID: id, Name: get(row, cName), Category: cat})
	}
	if len(vs) == 0 {
		return nil, errors.New("no varieties loaded")
	}
	return build(vs), nil
}

func build(vs []Variety) *Catalog {
	c := &Catalog{byID: map[string]Variety{}, all: vs}
	for _, v := range vs {
		c.byID[v.ID] = v
	}
	return c
}

func (c *Catalog) HasSugarcane(id string) bool {
	v, ok := c.byID[id]
	return ok && v.Category == CategorySugarcane
}

func (c *Catalog) HasIntercrop(id string) bool {
	v, ok := c.byID[id]
	return ok && v.Category == CategoryIntercrop
}

func (c *Catalog) All() []Variety { return c.all }
