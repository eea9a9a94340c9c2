package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/onsi/gomega"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "connector-catalog.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func Test_ConnectorCatalogConfig_ReadFiles(t *testing.T) {
	tests := []struct {
		name        string
		catalog     string
		wantErr     bool
		wantEntries int
	}{
		{
			name: "valid catalog",
			catalog: `
- key: salesforce
  name: Salesforce
  category: crm
  requires_api_key: true
  scopes:
    - read:accounts
- key: slack
  name: Slack
  category: communication
`,
			wantEntries: 2,
		},
		{
			name: "entry without a key is rejected",
			catalog: `
- name: Salesforce
  category: crm
`,
			wantErr: true,
		},
		{
			name: "unknown category is rejected",
			catalog: `
- key: salesforce
  name: Salesforce
  category: flying_cars
`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gomega.NewWithT(t)
			c := NewConnectorCatalogConfig()
			c.CatalogFile = writeCatalog(t, tt.catalog)
			err := c.ReadFiles()
			if tt.wantErr {
				g.Expect(err).To(gomega.HaveOccurred())
				return
			}
			g.Expect(err).ToNot(gomega.HaveOccurred())
			g.Expect(c.Entries).To(gomega.HaveLen(tt.wantEntries))
			g.Expect(c.Entries[0].Key).To(gomega.Equal("salesforce"))
			g.Expect(c.Entries[0].RequiresApiKey).To(gomega.Equal(true))
		})
	}
}
