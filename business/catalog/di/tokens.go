// Package di contains dependency injection tokens for the catalog context.
package di

import (
	"github.com/fd1az/seller-scout/business/catalog/app"
	"github.com/fd1az/seller-scout/business/catalog/infra/feed"
	"github.com/fd1az/seller-scout/internal/di"
)

// Public service tokens - exposed to other modules
var (
	CatalogService = di.NewToken[*app.CatalogService]("catalog.CatalogService")
)

// Private dependency tokens - internal to catalog module
var (
	ProductStore = di.NewToken[app.ProductStore]("catalog:productStore")
	Feed         = di.NewToken[*feed.Feed]("catalog:feed")
)

func GetCatalogService(c di.ServiceRegistry) *app.CatalogService {
	return di.GetToken(c, CatalogService)
}

func GetProductStore(c di.ServiceRegistry) app.ProductStore {
	return di.GetToken(c, ProductStore)
}

func GetFeed(c di.ServiceRegistry) *feed.Feed {
	return di.GetToken(c, Feed)
}
