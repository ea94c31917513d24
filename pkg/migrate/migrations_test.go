package migrate_test

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/obras-api/pkg/migrate"
)

func readInit(t *testing.T) string {
	t.Helper()
	data, err := fs.ReadFile(migrate.FS, "migrations/00001_init.sql")
	require.NoError(t, err, "la migración inicial debe estar embebida")
	return string(data)
}

func TestInitMigration_RestriccionesDeCantidades(t *testing.T) {
	content := readInit(t)
	checks := []string{
		"CHECK (received_quantity = accepted_quantity + rejected_quantity)",
		"CHECK (accepted_quantity + rejected_quantity <= requested_quantity)",
		"CHECK (requested_quantity > 0)",
		"CHECK (quantity > 0)",
		"CHECK ((supplier_id IS NOT NULL) = (request_type = 'supplier'))",
	}
	for _, sub := range checks {
		assert.Contains(t, content, sub, "falta la restricción %q", sub)
	}
}

func TestInitMigration_TablasYDown(t *testing.T) {
	content := readInit(t)
	tables := []string{
		"users", "projects", "project_members", "milestones", "tasks", "categories",
		"suppliers", "units", "items", "material_requests", "material_request_items",
		"material_request_actions", "material_deliveries", "material_verifications",
		"inventory_movements", "assets", "logs",
	}
	up, down, found := strings.Cut(content, "-- +goose Down")
	require.True(t, found, "la migración debe tener sección Down")
	for _, tbl := range tables {
		assert.Contains(t, up, "CREATE TABLE IF NOT EXISTS "+tbl+" (")
		assert.Contains(t, down, "DROP TABLE IF EXISTS "+tbl+";")
	}
}

func TestMigrations_Embebidas(t *testing.T) {
	entries, err := fs.ReadDir(migrate.FS, migrate.Dir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.True(t, strings.HasSuffix(e.Name(), ".sql"))
	}
}
