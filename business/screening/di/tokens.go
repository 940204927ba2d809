// Package di contains dependency injection tokens for the screening context.
package di

import (
	"github.com/fd1az/seller-scout/business/screening/app"
	"github.com/fd1az/seller-scout/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Evaluator          = di.NewToken[*app.Evaluator]("screening.Evaluator")
	FilterStateService = di.NewToken[*app.FilterStateService]("screening.FilterStateService")
)

// Private dependency tokens - internal to screening module
var (
	StateStore = di.NewToken[app.StateStore]("screening:stateStore")
)

func GetEvaluator(c di.ServiceRegistry) *app.Evaluator {
	return di.GetToken(c, Evaluator)
}

func GetFilterStateService(c di.ServiceRegistry) *app.FilterStateService {
	return di.GetToken(c, FilterStateService)
}

func GetStateStore(c di.ServiceRegistry) app.StateStore {
	return di.GetToken(c, StateStore)
}
