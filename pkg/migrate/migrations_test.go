package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/angelvillar/pawmart-backend/pkg/migrate"
)

func TestMigrationDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestOrdersMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_orders.sql")

	checks := []string{
		"CREATE TABLE orders",
		"CREATE TABLE order_items",
		"REFERENCES orders(id) ON DELETE CASCADE",
		"CHECK (status IN ('pending', 'completed', 'cancelled'))",
		"CHECK (quantity > 0)",
		"discount_at_time INTEGER NOT NULL DEFAULT 0",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}

	// product_id is a snapshot column; a FK here would block product hard deletes
	if strings.Contains(content, "REFERENCES products(id)") {
		t.Error("order_items.product_id must not reference products")
	}
}

func TestProductsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_products.sql")

	checks := []string{
		"CREATE TABLE products",
		"CHECK (price >= 0)",
		"CHECK (discount_percentage BETWEEN 0 AND 100)",
		"idx_products_created_at",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestSettingsMigrationSeedsSingletons(t *testing.T) {
	content := readMigration(t, "*_create_site_settings.sql")

	checks := []string{
		"CREATE TABLE contact_info",
		"CREATE TABLE admin_settings",
		"INSERT INTO contact_info",
		"INSERT INTO admin_settings",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matching %s", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
