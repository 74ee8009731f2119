// Command catalog serves a FakeStore-compatible product API for local runs.
package main

import (
	_ "embed"
	"log"
	"net/http"
	"time"
)

//go:embed products.json
var productsJSON []byte

func main() {
	http.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		// Simulate network latency (50-200ms)
		time.Sleep(time.Duration(50+time.Now().UnixNano()%150) * time.Millisecond)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(productsJSON); err != nil {
			log.Printf("[catalog] write error: %v", err)
		}

		log.Printf("[catalog] %s %s - 200 OK", r.Method, r.URL.Path)
	})

	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"healthy"}`)); err != nil {
			log.Printf("[catalog] health write error: %v", err)
		}
	})

	log.Println("mock catalog running on :8081")
	server := &http.Server{
		Addr:         ":8081",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
