package services

import (
	"vidtree/database"
)

// BaseService carries the typed collection accessor the concrete services
// share. Embedded so their constructors stay one line.
type BaseService struct {
	collections *database.Collections
}

func NewBaseService() *BaseService {
	return &BaseService{
		collections: database.NewCollections(),
	}
}
