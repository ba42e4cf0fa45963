// @title           Rental API
// @version         1.0
// @description     API маркетплейса аренды жилья: объявления, отзывы, заявки арендодателей, просмотры.
// @contact.name    Rental support
// @contact.email   support@rental.local
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:4000
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer <JWT>

package main

import (
	_ "rental_backend/docs"
	"rental_backend/internal/app"
)

func main() {
	app.Run()
}
