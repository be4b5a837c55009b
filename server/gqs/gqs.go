// Package gqs has services for interacting with the grammarq server backend
// decoupled from the API that accesses it.
package gqs

import (
	"github.com/dekarrin/grammarq/internal/compile"
	"github.com/dekarrin/grammarq/server/dao"
)

const (
	// MaxWordLimit is the most words that a single request may ask to be
	// produced from or compared across grammars.
	MaxWordLimit = 10000

	// DefaultHashCost is the bcrypt cost used for passwords when Service does
	// not set one.
	DefaultHashCost = 14
)

// Service is a service for interacting with and modifying the grammarq server
// backend. It performs the actions requested and makes calls to server
// persistence to preserve the backend state.
//
// The zero-value of Service is not ready to be used; assign a valid DAO store
// to DB before attempting to use it.
type Service struct {

	// DB is the persistence store of the service.
	DB dao.Store

	// Compiler compiles uploaded grammar source.
	Compiler compile.Compiler

	// HashCost is the bcrypt cost for new passwords. DefaultHashCost is used
	// if it is 0.
	HashCost int
}

func (svc Service) hashCost() int {
	if svc.HashCost == 0 {
		return DefaultHashCost
	}
	return svc.HashCost
}
