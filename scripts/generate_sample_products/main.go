package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"camelia/internal/model"
)

// generateSampleProducts writes a sample product list for local runs.
// data/products.json    plain JSON array
// data/products.json.gz the same list gzipped, the format used for S3 uploads
// 48 products: two catalogue pages, every fifth one out of stock, every fourth on offer.
func main() {
	dataDir := "data"

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	products := sampleProducts()

	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode products: %v", err)
	}

	plainPath := filepath.Join(dataDir, "products.json")
	if err := os.WriteFile(plainPath, data, 0644); err != nil {
		log.Fatalf("Failed to create %s: %v", plainPath, err)
	}
	fmt.Printf("Created %s with %d products\n", plainPath, len(products))

	gzipPath := plainPath + ".gz"
	if err := createGzipFile(gzipPath, data); err != nil {
		log.Fatalf("Failed to create %s: %v", gzipPath, err)
	}
	fmt.Printf("Created %s\n", gzipPath)
}

func sampleProducts() []model.Product {
	kinds := []struct {
		name     string
		category string
		price    float64
	}{
		{"Peluche", "peluches", 8500},
		{"Rompecabezas", "didacticos", 6200},
		{"Auto a fricción", "vehiculos", 4300},
		{"Muñeco articulado", "figuras", 9900},
		{"Juego de mesa", "juegos", 12500},
		{"Bloques", "didacticos", 7400},
	}
	characters := []string{"Bluey", "Spidey", "Peppa", "Paw Patrol", "Frozen", "Toy Story", "", "Mickey"}
	ages := []string{"0-2", "3-5", "6-8", "9+"}

	products := make([]model.Product, 0, len(kinds)*len(characters))
	id := 1
	for _, k := range kinds {
		for j, character := range characters {
			name := k.name
			if character != "" {
				name = fmt.Sprintf("%s %s", k.name, character)
			}

			p := model.Product{
				ID:          id,
				Name:        name,
				Price:       k.price + float64(j*350),
				Img:         fmt.Sprintf("img/products/%d.jpg", id),
				ExtraImages: []string{fmt.Sprintf("img/products/%d-b.jpg", id)},
				Stock:       id%5 != 0,
				Age:         ages[id%len(ages)],
				Category:    k.category,
				Character:   character,
				Description: fmt.Sprintf("%s ideal para regalar.", name),
				IsOffer:     id%4 == 0,
			}
			if id%12 == 0 {
				p.IsPrize = true
				p.PointsRequired = 1500
			}

			products = append(products, p)
			id++
		}
	}

	return products
}

func createGzipFile(filePath string, data []byte) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	if _, err := gzipWriter.Write(data); err != nil {
		return fmt.Errorf("failed to write products: %w", err)
	}

	return nil
}
