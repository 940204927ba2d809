// Package di contains dependency injection tokens for the research context.
package di

import (
	"github.com/fd1az/seller-scout/business/research/app"
	"github.com/fd1az/seller-scout/internal/di"
)

// Public service tokens - exposed to other modules
var (
	ResearchService = di.NewToken[*app.ResearchService]("research.ResearchService")
	Reporter        = di.NewToken[app.Reporter]("research.Reporter")
)

func GetResearchService(c di.ServiceRegistry) *app.ResearchService {
	return di.GetToken(c, ResearchService)
}

func GetReporter(c di.ServiceRegistry) app.Reporter {
	return di.GetToken(c, Reporter)
}
