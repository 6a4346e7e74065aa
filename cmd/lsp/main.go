package main

import (
	"flag"
	"log"
	"os"

	"github.com/thelilylang/lily-sub007/internal/index"
)

func main() {
	indexPath := flag.String("index", ".lily-index.db", "path to the workspace index database")
	flag.Parse()

	log.SetFlags(0)          // Disable timestamp in logs.
	log.SetOutput(os.Stderr) // Stdout is the LSP protocol channel.

	ix, err := index.Open(*indexPath)
	if err != nil {
		log.Printf("lsp: index unavailable: %v", err)
		ix = nil
	}
	if ix != nil {
		defer ix.Close()
	}

	server := NewLanguageServer(os.Stdout, ix)
	if err := server.Start(os.Stdin); err != nil {
		log.Fatalf("lsp: %v", err)
	}
}
