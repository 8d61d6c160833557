// Package main is the entry point for Model Admin.
//
//	@title			Model Admin API
//	@version		1.0
//	@description	Read-only view of the model descriptors registered with the administrator panel.
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
package main

func main() {
	Execute()
}
