// Package gamedata holds the static game constants the pipeline needs. A
// Catalog is built once at startup and passed to the components that read it.
package gamedata

import (
	_ "embed"
	"fmt"
	"strings"

	sonic "github.com/bytedance/sonic"
)

//go:embed catalog.json
var embeddedCatalog []byte

type Queue struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Champion struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type document struct {
	TrashedGameModes []string   `json:"trashed_game_modes"`
	Queues           []Queue    `json:"queues"`
	Champions        []Champion `json:"champions"`
}

// Catalog is an immutable lookup over queues, champions and the game modes
// whose matches are never ingested.
type Catalog struct {
	queues       map[int]Queue
	champions    map[int]Champion
	trashedModes map[string]struct{}
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(embeddedCatalog)
}

// Parse builds a catalog from a JSON document shaped like catalog.json.
func Parse(raw []byte) (*Catalog, error) {
	var doc document
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode game catalog: %w", err)
	}

	c := &Catalog{
		queues:       make(map[int]Queue, len(doc.Queues)),
		champions:    make(map[int]Champion, len(doc.Champions)),
		trashedModes: make(map[string]struct{}, len(doc.TrashedGameModes)),
	}
	for _, q := range doc.Queues {
		c.queues[q.ID] = q
	}
	for _, champ := range doc.Champions {
		c.champions[champ.ID] = champ
	}
	for _, mode := range doc.TrashedGameModes {
		if mode = normalizeMode(mode); mode != "" {
			c.trashedModes[mode] = struct{}{}
		}
	}
	return c, nil
}

// WithTrashedModes returns a copy whose deny-list is replaced by modes. An
// empty list keeps the current deny-list.
func (c *Catalog) WithTrashedModes(modes []string) *Catalog {
	out := &Catalog{queues: c.queues, champions: c.champions, trashedModes: c.trashedModes}
	if len(modes) == 0 {
		return out
	}
	out.trashedModes = make(map[string]struct{}, len(modes))
	for _, mode := range modes {
		if mode = normalizeMode(mode); mode != "" {
			out.trashedModes[mode] = struct{}{}
		}
	}
	return out
}

func (c *Catalog) IsTrashedMode(gameMode string) bool {
	if c == nil {
		return false
	}
	_, ok := c.trashedModes[normalizeMode(gameMode)]
	return ok
}

func (c *Catalog) Queue(id int) (Queue, bool) {
	if c == nil {
		return Queue{}, false
	}
	q, ok := c.queues[id]
	return q, ok
}

func (c *Catalog) QueueName(id int) string {
	if q, ok := c.Queue(id); ok {
		return q.Name
	}
	return fmt.Sprintf("Queue %d", id)
}

func (c *Catalog) ChampionName(id int) string {
	if c != nil {
		if champ, ok := c.champions[id]; ok {
			return champ.Name
		}
	}
	return fmt.Sprintf("Champion %d", id)
}

func normalizeMode(mode string) string {
	return strings.ToUpper(strings.TrimSpace(mode))
}
