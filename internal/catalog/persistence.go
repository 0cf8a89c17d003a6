package catalog

import (
	"fmt"

	"github.com/geocoder89/eventdesk/internal/store/textfile"
)

func (c *Catalog) observe(op string, fn func() error) error {
	if c.prom != nil {
		return c.prom.ObserveStore(op, fn)
	}
	return fn()
}

// SaveToFile writes every event, in insertion order, to path. The previous
// file content survives a failed save.
func (c *Catalog) SaveToFile(path string) error {
	err := c.observe("save", func() error {
		return textfile.Save(path, c.items)
	})

	if err != nil {
		c.log.Error("save failed", "path", path, "err", err)
		return fmt.Errorf("save %s: %w", path, err)
	}

	c.log.Info("catalog saved", "path", path, "events", len(c.items))
	return nil
}

// LoadFromFile replaces the catalog with the events stored at path. Malformed
// lines are skipped. On any error, including a missing file, the catalog keeps
// its previous content.
func (c *Catalog) LoadFromFile(path string) error {
	var res textfile.Result

	err := c.observe("load", func() error {
		var err error
		res, err = textfile.Load(path)
		return err
	})

	if err != nil {
		if textfile.IsNotExist(err) {
			c.log.Warn("events file not found", "path", path)
		} else {
			c.log.Error("load failed", "path", path, "err", err)
		}
		return fmt.Errorf("load %s: %w", path, err)
	}

	for _, s := range res.Skipped {
		c.log.Debug("skipping line", "path", path, "line", s.Number, "err", s.Err)
	}
	if c.prom != nil {
		c.prom.LinesSkippedTotal.Add(float64(len(res.Skipped)))
	}

	c.items = res.Events
	c.setGauge()

	c.log.Info("catalog loaded", "path", path, "events", len(res.Events), "skipped", len(res.Skipped))
	return nil
}
