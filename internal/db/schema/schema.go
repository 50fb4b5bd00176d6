// Package schema lists every module's migrations in dependency order.
package schema

import (
	ledgermigrations "github.com/Black-And-White-Club/poker-ledger/app/modules/ledger/infrastructure/repositories/migrations"
	playermigrations "github.com/Black-And-White-Club/poker-ledger/app/modules/player/infrastructure/repositories/migrations"
	settlementmigrations "github.com/Black-And-White-Club/poker-ledger/app/modules/settlement/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/poker-ledger/internal/db/bundb"
)

// Modules returns the migration sets. Players come first because ledger
// entries and payments reference them.
func Modules() []bundb.ModuleMigrations {
	return []bundb.ModuleMigrations{
		{Module: "player", Migrations: playermigrations.Migrations},
		{Module: "ledger", Migrations: ledgermigrations.Migrations},
		{Module: "settlement", Migrations: settlementmigrations.Migrations},
	}
}
