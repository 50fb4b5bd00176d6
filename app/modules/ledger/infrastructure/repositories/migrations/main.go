package ledgermigrations

import (
	"github.com/uptrace/bun/migrate"
)

// Migrations holds the ledger module's schema changes.
var Migrations = migrate.NewMigrations()

func init() {
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}
