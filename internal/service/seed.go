package service

import "github.com/axionhelmets/storefront-server/internal/model"

// SeedProducts returns the launch catalog of Axion helmets.
func SeedProducts() []model.Product {
	return []model.Product{
		{
			Name:        "Axion Max (Special Edition)",
			Price:       299900,
			Image:       "https://via.placeholder.com/300x300/ff0000/ffffff?text=Axion+Max",
			Description: "Iron Man Red Edition with premium visor and advanced safety features.",
			Stock:       15,
			Category:    "premium",
			Featured:    true,
		},
		{
			Name:        "Axion Stealth",
			Price:       149900,
			Image:       "https://via.placeholder.com/300x300/000000/ffffff?text=Stealth",
			Description: "Matte black finish for stealth riders. Lightweight and aerodynamic.",
			Stock:       25,
			Category:    "standard",
		},
		{
			Name:        "Axion Green Viper",
			Price:       189900,
			Image:       "https://via.placeholder.com/300x300/00ff00/000000?text=Viper",
			Description: "High visibility neon green for maximum safety on the road.",
			Stock:       20,
			Category:    "standard",
		},
		{
			Name:        "Axion Gold Rush",
			Price:       349900,
			Image:       "https://via.placeholder.com/300x300/ffd700/000000?text=Gold",
			Description: "Limited edition gold plating with carbon fiber shell.",
			Stock:       5,
			Category:    "premium",
			Featured:    true,
		},
		{
			Name:        "Axion Carbon Pro",
			Price:       229900,
			Image:       "https://via.placeholder.com/300x300/333333/ffffff?text=Carbon",
			Description: "Professional grade carbon fiber construction.",
			Stock:       12,
			Category:    "premium",
		},
		{
			Name:        "Axion Street Rider",
			Price:       99900,
			Image:       "https://via.placeholder.com/300x300/0066cc/ffffff?text=Street",
			Description: "Affordable protection for daily commuters.",
			Stock:       30,
			Category:    "standard",
		},
	}
}
