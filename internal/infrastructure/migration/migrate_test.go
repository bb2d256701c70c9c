package migration

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"

	"github.com/markethub/backend/internal/domain/catalog"
	"github.com/markethub/backend/internal/domain/identity"
	"github.com/markethub/backend/internal/domain/order"
	"github.com/markethub/backend/internal/domain/subscription"
)

// tableDDL extracts the column list of a single CREATE TABLE statement.
func tableDDL(t *testing.T, ddl, table string) string {
	t.Helper()
	re := regexp.MustCompile(`(?s)CREATE TABLE ` + table + ` \((.*?)\);`)
	m := re.FindStringSubmatch(ddl)
	require.NotNil(t, m, "no CREATE TABLE statement for %s", table)
	return m[1]
}

// Every column the models map must exist in the initial schema, otherwise
// the repositories' insert and update statements fail at runtime against a
// migrated database.
func TestInitSchemaCoversModelColumns(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("..", "..", "..", "migrations", "000001_init_schema.up.sql"))
	require.NoError(t, err)
	ddl := string(raw)

	models := []interface{}{
		&identity.User{},
		&catalog.Product{},
		&order.Transaction{},
		&order.Order{},
		&order.SubOrder{},
		&order.OrderItem{},
		&subscription.Subscription{},
	}

	cache := &sync.Map{}
	for _, model := range models {
		s, err := schema.Parse(model, cache, schema.NamingStrategy{})
		require.NoError(t, err)

		t.Run(s.Table, func(t *testing.T) {
			columns := tableDDL(t, ddl, s.Table)
			for _, field := range s.Fields {
				if field.DBName == "" { // associations and ignored fields
					continue
				}
				assert.True(t, strings.Contains(columns, field.DBName),
					"column %s.%s missing from migration", s.Table, field.DBName)
			}
		})
	}
}
