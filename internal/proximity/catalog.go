package proximity

import (
	"sync"

	"wayfinder.app/internal/models"
)

// Catalog is the process wide set of known hazards and cameras. Engines are
// built from a snapshot of it; reports land in both.
type Catalog struct {
	mu      sync.RWMutex
	hazards []models.RoadCondition
	cameras []models.SpeedCamera
}

func NewCatalog(hazards []models.RoadCondition, cameras []models.SpeedCamera) *Catalog {
	return &Catalog{
		hazards: append([]models.RoadCondition(nil), hazards...),
		cameras: append([]models.SpeedCamera(nil), cameras...),
	}
}

func (c *Catalog) Hazards() []models.RoadCondition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.RoadCondition(nil), c.hazards...)
}

func (c *Catalog) Cameras() []models.SpeedCamera {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.SpeedCamera(nil), c.cameras...)
}

// Add appends hazards, ignoring ids that are already known.
func (c *Catalog) Add(hazards ...models.RoadCondition) {
	c.mu.Lock()
	defer c.mu.Unlock()

	known := make(map[string]struct{}, len(c.hazards))
	for _, h := range c.hazards {
		known[h.ID] = struct{}{}
	}
	for _, h := range hazards {
		if _, ok := known[h.ID]; ok {
			continue
		}
		known[h.ID] = struct{}{}
		c.hazards = append(c.hazards, h)
	}
}
