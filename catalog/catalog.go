// Package catalog loads and indexes the ordered list of activity
// definitions.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gsbellu/mindfulday/internal/models"
	"github.com/gsbellu/mindfulday/internal/timeutil"
)

const fetchTimeout = 10 * time.Second

// fallbackIcon is displayed for activity ids that are no longer in the
// catalog.
const fallbackIcon = "ph-question"

// Catalog is an ordered, id-deduplicated collection of activity
// definitions. It is immutable after construction; reloading produces a
// new Catalog.
type Catalog struct {
	defs  []models.ActivityDef
	index map[string]int
}

// New builds a catalog from the given definitions, preserving order.
// Duplicate ids keep only the first occurrence.
func New(defs []models.ActivityDef) *Catalog {
	c := &Catalog{
		index: make(map[string]int),
	}

	for _, def := range defs {
		if _, seen := c.index[def.ID]; seen {
			continue
		}

		c.index[def.ID] = len(c.defs)
		c.defs = append(c.defs, def)
	}

	return c
}

// Defs returns the catalog entries in order. The returned slice must
// not be modified.
func (c *Catalog) Defs() []models.ActivityDef {
	return c.defs
}

// Len returns the number of activities in the catalog.
func (c *Catalog) Len() int {
	return len(c.defs)
}

// Get resolves an activity id. Unknown ids resolve to a generic
// definition using the raw id as the label, so sessions referencing
// removed activities still display.
func (c *Catalog) Get(id string) models.ActivityDef {
	if i, ok := c.index[id]; ok {
		return c.defs[i]
	}

	return models.ActivityDef{
		ID:    id,
		Label: id,
		Icon:  fallbackIcon,
	}
}

// Contains reports whether the id is defined in the catalog.
func (c *Catalog) Contains(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Load reads a catalog from the given source, which may be an http(s)
// URL or a local file path. URL fetches append a cache-busting query
// parameter so stale CDN copies are bypassed.
func Load(source string) (*Catalog, error) {
	var (
		data []byte
		err  error
	)

	if strings.HasPrefix(source, "http://") ||
		strings.HasPrefix(source, "https://") {
		data, err = fetch(source)
	} else {
		data, err = os.ReadFile(source)
	}

	if err != nil {
		return nil, fmt.Errorf("loading catalog from %s: %w", source, err)
	}

	return Parse(data)
}

// Parse decodes a JSON array of activity definitions.
func Parse(data []byte) (*Catalog, error) {
	var defs []models.ActivityDef

	err := json.Unmarshal(data, &defs)
	if err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	return New(defs), nil
}

func fetch(url string) ([]byte, error) {
	c := http.Client{Timeout: fetchTimeout}

	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}

	resp, err := c.Get(fmt.Sprintf("%s%st=%d", url, sep, timeutil.NowMillis()))
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}
