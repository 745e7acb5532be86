package main

import "github.com/Al-amen/stock-prediction-portal-backend/internal/app"

// @title           Stock Prediction Portal API
// @version         1.0
// @description     User accounts with email verification plus stock price forecasting.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
