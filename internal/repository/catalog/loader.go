// Package catalog loads the dish catalog from a JSON file at startup.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"

	domcat "github.com/comidalab/buscaplato/internal/domain/catalog"
)

// Loader reads and augments a catalog file. The file holds either a bare dish
// array or a {"count": n, "items": [...]} wrapper from a catalog export.
type Loader struct {
	path   string
	logger *zap.Logger
}

// NewLoader creates a catalog file loader.
func NewLoader(path string, logger *zap.Logger) *Loader {
	return &Loader{path: path, logger: logger}
}

// Load reads the file, decodes the dishes and derives intent tags. The
// returned slice is ready for indexing and must not be mutated afterwards.
func (l *Loader) Load() ([]domcat.Dish, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	dishes, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", l.path, err)
	}
	if len(dishes) == 0 {
		return nil, fmt.Errorf("catalog %s has no dishes", l.path)
	}

	seen := make(map[string]struct{}, len(dishes))
	for _, d := range dishes {
		if d.ID == "" {
			return nil, fmt.Errorf("catalog %s: dish %q has no id", l.path, d.Name)
		}
		if _, dup := seen[d.ID]; dup {
			return nil, fmt.Errorf("catalog %s: duplicate dish id %q", l.path, d.ID)
		}
		seen[d.ID] = struct{}{}
	}

	domcat.Augment(dishes)

	l.logger.Info("Catalog loaded",
		zap.String("path", l.path),
		zap.Int("dishes", len(dishes)))

	return dishes, nil
}

func decode(data []byte) ([]domcat.Dish, error) {
	var dishes []domcat.Dish
	if err := json.Unmarshal(data, &dishes); err == nil {
		return dishes, nil
	}

	var wrapped struct {
		Items []domcat.Dish `json:"items"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("neither dish array nor items wrapper: %w", err)
	}
	return wrapped.Items, nil
}

// RestaurantNames returns the distinct restaurant names in the catalog,
// sorted. Used to seed restaurant-name detection in query compilation.
func RestaurantNames(dishes []domcat.Dish) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, d := range dishes {
		name := d.Restaurant.Name
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
