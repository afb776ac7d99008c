package core

import "time"

type Services struct {
	Domain     *DomainService
	SyncStatus *SyncStatusService
}

func NewServices(db DB, syncStatusTTL time.Duration) *Services {
	return &Services{
		Domain:     NewDomainService(db),
		SyncStatus: NewSyncStatusService(db, syncStatusTTL),
	}
}
