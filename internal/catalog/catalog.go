// Package catalog holds the restaurant's static reference data: the fixed
// set of tables, the named seating zones and the wizard-label identity map.
// All of it is loaded once at startup and treated as immutable configuration;
// reservation operations never mutate the catalog.
package catalog

import (
	"fmt"
	"sort"

	"github.com/lamesa/reserva/internal/model"
)

// Zone describes a named seating area grouping a subset of tables.
type Zone struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Catalog is the fixed set of tables and zones.  It is read-only after
// construction and therefore safe for concurrent use without locking.
type Catalog struct {
	tables      []model.Table
	byID        map[uint64]model.Table
	zones       []Zone
	zoneIDs     map[string]struct{}
	zoneAliases map[string]string
}

// New validates a Config and builds a Catalog from it.  Tables are kept in
// ascending id order, which is the stable ordering every listing operation
// returns.
func New(cfg Config) (*Catalog, error) {
	if len(cfg.Tables) == 0 {
		return nil, fmt.Errorf("catalog: no tables configured")
	}
	c := &Catalog{
		tables:      make([]model.Table, len(cfg.Tables)),
		byID:        make(map[uint64]model.Table, len(cfg.Tables)),
		zones:       append([]Zone(nil), cfg.Zones...),
		zoneIDs:     make(map[string]struct{}, len(cfg.Zones)),
		zoneAliases: make(map[string]string, len(cfg.ZoneAliases)),
	}
	for _, z := range cfg.Zones {
		if z.ID == "" {
			return nil, fmt.Errorf("catalog: zone with empty id")
		}
		if _, dup := c.zoneIDs[z.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate zone %q", z.ID)
		}
		c.zoneIDs[z.ID] = struct{}{}
	}
	numbers := make(map[uint32]struct{}, len(cfg.Tables))
	copy(c.tables, cfg.Tables)
	sort.Slice(c.tables, func(i, j int) bool { return c.tables[i].ID < c.tables[j].ID })
	for _, t := range c.tables {
		if t.ID == 0 || t.Capacity == 0 {
			return nil, fmt.Errorf("catalog: table %d has invalid id or capacity", t.ID)
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate table id %d", t.ID)
		}
		if _, dup := numbers[t.Number]; dup {
			return nil, fmt.Errorf("catalog: duplicate table number %d", t.Number)
		}
		if _, ok := c.zoneIDs[t.Zone]; !ok {
			return nil, fmt.Errorf("catalog: table %d references unknown zone %q", t.ID, t.Zone)
		}
		c.byID[t.ID] = t
		numbers[t.Number] = struct{}{}
	}
	for alias, target := range cfg.ZoneAliases {
		if _, ok := c.zoneIDs[target]; !ok {
			return nil, fmt.Errorf("catalog: zone alias %q targets unknown zone %q", alias, target)
		}
		c.zoneAliases[alias] = target
	}
	return c, nil
}

// Tables returns all tables in catalog order (ascending id).  The returned
// slice is a copy; mutating it does not affect the catalog.
func (c *Catalog) Tables() []model.Table {
	out := make([]model.Table, len(c.tables))
	copy(out, c.tables)
	return out
}

// Get looks up a table by canonical id.
func (c *Catalog) Get(id uint64) (model.Table, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// Zones returns the configured seating zones.
func (c *Catalog) Zones() []Zone {
	out := make([]Zone, len(c.zones))
	copy(out, c.zones)
	return out
}

// NormalizeZone resolves historical zone identifiers to their current zone
// (for example the retired "patio" area maps onto "barra").  Unknown zones
// pass through unchanged; callers treat them as matching no tables.
func (c *Catalog) NormalizeZone(zone string) string {
	if target, ok := c.zoneAliases[zone]; ok {
		return target
	}
	return zone
}

// InZone returns the tables belonging to the given zone in catalog order.
// The zone is normalized first; an unknown zone yields an empty slice, not
// an error, so legacy identifiers degrade gracefully.
func (c *Catalog) InZone(zone string) []model.Table {
	zone = c.NormalizeZone(zone)
	out := make([]model.Table, 0, len(c.tables))
	for _, t := range c.tables {
		if t.Zone == zone {
			out = append(out, t)
		}
	}
	return out
}
