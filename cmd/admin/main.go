// admin herramientas de operación: migraciones, carga de reparti y alta del primer administrador.
//
// Uso:
//
//	go run ./cmd/admin migrate
//	go run ./cmd/admin seed-departments Taglio Cucito Stiro Imballaggio
//	go run ./cmd/admin seed-departments --file reparti.txt --charset latin1
//	go run ./cmd/admin create-admin --username admin --password secreto --full-name "Mario Rossi"
package main

func main() {
	Execute()
}
