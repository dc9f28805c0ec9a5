// Package category holds the fixed set of timer buttons shown on the board.
package category

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrEmptyName is returned when a category has no name.
	ErrEmptyName = errors.New("category name is empty")
	// ErrDuplicateName is returned when two categories share a name.
	ErrDuplicateName = errors.New("duplicate category name")
)

// Group separates productive categories from the ones that stop the line.
type Group uint8

const (
	// GroupUptime marks categories where the machine is producing.
	GroupUptime Group = iota
	// GroupDowntime marks categories where it is not.
	GroupDowntime
)

func (g Group) String() string {
	if g == GroupDowntime {
		return "Downtime"
	}
	return "Uptime"
}

// Category is one timer button.
type Category struct {
	Name  string
	Icon  string
	Color string
}

// Catalog is an immutable, ordered set of categories. Board positions count
// uptime categories first, then downtime ones.
type Catalog struct {
	uptime   []Category
	downtime []Category
	index    map[string]Group
}

// Default returns the shop-floor categories the board ships with.
func Default() *Catalog {
	c, _ := New(
		[]Category{
			{Name: "Setup Time", Icon: "⚙️", Color: "#3498db"},
			{Name: "Direct Work", Icon: "🔨", Color: "#2ecc71"},
			{Name: "QC Inspect", Icon: "🔍", Color: "#f1c40f"},
		},
		[]Category{
			{Name: "Maintenance", Icon: "🛠️", Color: "#e67e22"},
			{Name: "Waiting", Icon: "⏳", Color: "#e74c3c"},
			{Name: "End of Day", Icon: "🏁", Color: "#9b59b6"},
		},
	)
	return c
}

// New validates and copies the supplied groups into a Catalog.
func New(uptime, downtime []Category) (*Catalog, error) {
	c := &Catalog{
		uptime:   make([]Category, 0, len(uptime)),
		downtime: make([]Category, 0, len(downtime)),
		index:    make(map[string]Group, len(uptime)+len(downtime)),
	}

	add := func(cat Category, group Group) error {
		cat.Name = strings.TrimSpace(cat.Name)
		if cat.Name == "" {
			return ErrEmptyName
		}
		if _, exists := c.index[cat.Name]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateName, cat.Name)
		}
		c.index[cat.Name] = group
		if group == GroupDowntime {
			c.downtime = append(c.downtime, cat)
		} else {
			c.uptime = append(c.uptime, cat)
		}
		return nil
	}

	for _, cat := range uptime {
		if err := add(cat, GroupUptime); err != nil {
			return nil, err
		}
	}
	for _, cat := range downtime {
		if err := add(cat, GroupDowntime); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Lookup finds a category by exact name.
func (c *Catalog) Lookup(name string) (Category, bool) {
	group, ok := c.index[name]
	if !ok {
		return Category{}, false
	}
	list := c.uptime
	if group == GroupDowntime {
		list = c.downtime
	}
	for _, cat := range list {
		if cat.Name == name {
			return cat, true
		}
	}
	return Category{}, false
}

// Contains reports whether name is a known category.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.index[name]
	return ok
}

// At returns the category at the 1-based board position.
func (c *Catalog) At(position int) (Category, bool) {
	if position < 1 {
		return Category{}, false
	}
	i := position - 1
	if i < len(c.uptime) {
		return c.uptime[i], true
	}
	i -= len(c.uptime)
	if i < len(c.downtime) {
		return c.downtime[i], true
	}
	return Category{}, false
}

// Resolve accepts either a category name (case-insensitive) or a board position.
func (c *Catalog) Resolve(ref string) (Category, bool) {
	ref = strings.TrimSpace(ref)
	if cat, ok := c.Lookup(ref); ok {
		return cat, true
	}
	for _, cat := range c.All() {
		if strings.EqualFold(cat.Name, ref) {
			return cat, true
		}
	}
	if position, err := strconv.Atoi(ref); err == nil && strconv.Itoa(position) == ref {
		return c.At(position)
	}
	return Category{}, false
}

// Group reports which group a category belongs to.
func (c *Catalog) Group(name string) (Group, bool) {
	g, ok := c.index[name]
	return g, ok
}

// Uptime returns a copy of the uptime categories in board order.
func (c *Catalog) Uptime() []Category {
	return append([]Category(nil), c.uptime...)
}

// Downtime returns a copy of the downtime categories in board order.
func (c *Catalog) Downtime() []Category {
	return append([]Category(nil), c.downtime...)
}

// All returns every category in board order.
func (c *Catalog) All() []Category {
	all := make([]Category, 0, len(c.uptime)+len(c.downtime))
	all = append(all, c.uptime...)
	return append(all, c.downtime...)
}

// Len is the number of categories on the board.
func (c *Catalog) Len() int {
	return len(c.uptime) + len(c.downtime)
}
