// Package di contains dependency injection tokens for the profit context.
package di

import (
	"github.com/fd1az/seller-scout/business/profit/app"
	"github.com/fd1az/seller-scout/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Calculator = di.NewToken[*app.Calculator]("profit.Calculator")
)

func GetCalculator(c di.ServiceRegistry) *app.Calculator {
	return di.GetToken(c, Calculator)
}
