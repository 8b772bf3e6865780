package config

import (
	dbm "github.com/tendermint/tm-db"
)

// BlockIndexDBID names the database holding the persisted block index.
const BlockIndexDBID = "blockindex"

// DBProvider opens the database named id as configured by cfg.
type DBProvider func(id string, cfg *Config) (dbm.DB, error)

// DefaultDBProvider returns a database using the DBBackend and DBDir
// specified in the Config.
func DefaultDBProvider(id string, cfg *Config) (dbm.DB, error) {
	return dbm.NewDB(id, dbm.BackendType(cfg.DBBackend), cfg.DBDir())
}
