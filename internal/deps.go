package internal

import (
	"campusswap/market-api/internal/service"
	"campusswap/market-api/pkg/security"

	"gorm.io/gorm"
)

type Deps struct {
	DB    *gorm.DB
	Argon *security.ArgonHash
	Mail  service.Mailer
}
