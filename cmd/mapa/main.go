package main

// @title Mapa de Recursos API
// @version 1.0
// @description Personnel and institution mapping for the naval health directorate

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	execute()
}
