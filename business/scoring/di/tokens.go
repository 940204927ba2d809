// Package di contains dependency injection tokens for the scoring context.
package di

import (
	"github.com/fd1az/seller-scout/business/scoring/app"
	"github.com/fd1az/seller-scout/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Scorer = di.NewToken[*app.Scorer]("scoring.Scorer")
)

func GetScorer(c di.ServiceRegistry) *app.Scorer {
	return di.GetToken(c, Scorer)
}
