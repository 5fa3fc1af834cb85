package main

import "visaflow/internal/app"

// @title                       VisaFlow API
// @version                     1.0
// @description                 Back-office for a visa-processing agency: leads, clients, agents and the ledger.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	app.Run()
}
