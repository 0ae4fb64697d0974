package store

import (
	_ "embed"

	"acefreelance/internal/logging"
	"acefreelance/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed tasks.yaml
var seedCatalogYAML []byte

type seedFile struct {
	Tasks []model.Task `yaml:"tasks"`
}

// seedCatalog loads the embedded sample catalog on first run. The catalog is
// read-only afterwards, so a non-empty tasks table is left alone.
func (ms *Database) seedCatalog() error {
	var count int
	if err := ms.DB.QueryRow("SELECT COUNT(*) FROM tasks").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var seed seedFile
	if err := yaml.Unmarshal(seedCatalogYAML, &seed); err != nil {
		return err
	}

	for _, t := range seed.Tasks {
		_, err := ms.DB.Exec(
			"INSERT INTO tasks (id, title, description, price, category, complexity, deadline, words) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			t.ID, t.Title, t.Description, t.Price, t.Category, t.Complexity, t.Deadline, t.Words,
		)
		if err != nil {
			return err
		}
	}

	logging.Logg.Info("Seeded task catalog", "tasks", len(seed.Tasks))
	return nil
}
