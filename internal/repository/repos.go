package repository

import "database/sql"

// Repos bundles the repositories of one database so that services can
// open a transaction on DB and hand it to several ...Tx methods.
type Repos struct {
	DB        *sql.DB
	Watches   *WatchRepo
	Typicals  *TypicalPriceRepo
	Snapshots *SnapshotRepo
	Alerts    *AlertRepo
	Orders    *OrderRepo
}

// New builds every repository on db.
func New(db *sql.DB) *Repos {
	return &Repos{
		DB:        db,
		Watches:   NewWatchRepo(db),
		Typicals:  NewTypicalPriceRepo(db),
		Snapshots: NewSnapshotRepo(db),
		Alerts:    NewAlertRepo(db),
		Orders:    NewOrderRepo(db),
	}
}
