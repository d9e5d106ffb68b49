package postgres

import "embed"

// Migrations holds the schema, applied at startup with database.Migrate.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations.
const MigrationsDir = "migrations"
