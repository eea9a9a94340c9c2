package config

import (
	"github.com/ghodss/yaml"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"

	"github.com/hirewire/control-tower/pkg/shared"
)

// CatalogEntry is one connector definition from the catalog file. Workspaces
// are seeded from these entries, runtime state lives in the database.
type CatalogEntry struct {
	Key            string   `json:"key" validate:"required"`
	Name           string   `json:"name" validate:"required"`
	Category       string   `json:"category" validate:"required,oneof=crm work_management communication content ai other"`
	Description    string   `json:"description"`
	Owner          string   `json:"owner"`
	Environment    string   `json:"environment"`
	RequiresApiKey bool     `json:"requires_api_key"`
	Scopes         []string `json:"scopes"`
	Regions        []string `json:"regions"`
	Compliance     []string `json:"compliance"`
}

type ConnectorCatalogConfig struct {
	CatalogFile string         `json:"catalog_file"`
	Entries     []CatalogEntry `json:"entries" validate:"dive"`
}

func NewConnectorCatalogConfig() *ConnectorCatalogConfig {
	return &ConnectorCatalogConfig{
		CatalogFile: "config/connector-catalog.yaml",
	}
}

func (c *ConnectorCatalogConfig) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.CatalogFile, "connector-catalog-file", c.CatalogFile, "File containing the connector catalog")
}

func (c *ConnectorCatalogConfig) ReadFiles() error {
	content, err := shared.ReadFile(c.CatalogFile)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal([]byte(content), &c.Entries); err != nil {
		return err
	}
	validate := validator.New()
	for i := range c.Entries {
		if err := validate.Struct(&c.Entries[i]); err != nil {
			return err
		}
	}
	return nil
}
