package main

import (
	"flag"
	"log"

	"favedex/internal/compare"
	"favedex/internal/connectivity"
	"favedex/internal/database"
	"favedex/internal/favorites"
	"favedex/internal/pokeapi"
	"favedex/internal/search"
	"favedex/internal/server"
)

func main() {
	addr := flag.String("addr", "0.0.0.0:8080", "listen address")
	dbPath := flag.String("db", "favedex.db", "path to the SQLite database")
	ephemeral := flag.Bool("ephemeral", false, "keep favorites in memory only")
	flag.Parse()

	var kv database.KV
	if *ephemeral {
		kv = database.NewMemory()
	} else {
		db, err := database.New(*dbPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		kv = db
	}
	defer kv.Close()
	log.Printf("Using %s storage", kv.BackendType())

	store := favorites.NewStore(favorites.NewAdapter(kv))
	monitor := connectivity.New()
	session := search.NewSession(pokeapi.NewClient(), monitor)
	selection := compare.NewSelection()

	srv, err := server.New(store, session, selection, monitor)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	if err := srv.Start(*addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
