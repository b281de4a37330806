// Package seed holds the demo dataset: the starter accounts and
// listings loaded in development, and the fixed recommendation table
// the prediction lookup always uses.
package seed

import (
	"github.com/yourorg/agrimarket/internal/domain"
)

// Accounts returns the demo accounts. None of them carries a password
// hash, so they authenticate by email lookup alone.
func Accounts() []*domain.Account {
	return []*domain.Account{
		{ID: "acc-1", Name: "Ramesh Kumar", Email: "ramesh@farm.com", Role: domain.RoleFarmer, Location: "Punjab"},
		{ID: "acc-2", Name: "Kavita Patel", Email: "kavita@farm.com", Role: domain.RoleFarmer, Location: "Gujarat"},
		{ID: "acc-3", Name: "Arjun Singh", Email: "arjun@buyer.com", Role: domain.RoleBuyer, Location: "Delhi"},
		{ID: "acc-4", Name: "AgroMart", Email: "contact@agromart.com", Role: domain.RoleSeller, Location: "Mumbai"},
		{ID: "acc-5", Name: "GreenFarms", Email: "info@greenfarms.com", Role: domain.RoleSeller, Location: "Bangalore"},
	}
}

// Crops returns the demo crop catalog
func Crops() []*domain.CropListing {
	return []*domain.CropListing{
		{
			ID: "crop-1", Name: "Maize", FarmerName: "Ramesh Kumar",
			Quantity: 500, Price: 25, Location: "Punjab",
			Images:      []string{"/assets/maize.jpg"},
			Description: "High-quality yellow maize, freshly harvested",
		},
		{
			ID: "crop-2", Name: "Onion", FarmerName: "Kavita Patel",
			Quantity: 300, Price: 30, Location: "Gujarat",
			Images:      []string{"/assets/onion.jpg"},
			Description: "Premium red onions, perfect for cooking",
		},
		{
			ID: "crop-3", Name: "Wheat", FarmerName: "Ramesh Kumar",
			Quantity: 800, Price: 22, Location: "Punjab",
			Images:      []string{"/assets/wheat.jpg"},
			Description: "Golden wheat grains, excellent quality",
		},
		{
			ID: "crop-4", Name: "Rice", FarmerName: "Kavita Patel",
			Quantity: 600, Price: 35, Location: "Gujarat",
			Images:      []string{"/assets/rice.jpg"},
			Description: "Basmati rice, aromatic and premium",
		},
	}
}

// Products returns the demo input-product catalog
func Products() []*domain.ProductListing {
	return []*domain.ProductListing{
		{
			ID: "prod-1", Name: "Hybrid Rice Seeds", SellerName: "AgroMart",
			Category: domain.CategorySeeds, Price: 150, Stock: 100,
			Description: "High-yield hybrid rice seeds with disease resistance",
			Images:      []string{"/assets/seeds.jpg"},
		},
		{
			ID: "prod-2", Name: "Organic Fertilizer", SellerName: "GreenFarms",
			Category: domain.CategoryFertilizers, Price: 80, Stock: 200,
			Description: "Eco-friendly organic fertilizer for better soil health",
			Images:      []string{"/assets/fertilizer.jpg"},
		},
		{
			ID: "prod-3", Name: "Corn Seeds", SellerName: "AgroMart",
			Category: domain.CategorySeeds, Price: 120, Stock: 75,
			Description: "Premium corn seeds for high productivity",
			Images:      []string{"/assets/seeds.jpg"},
		},
		{
			ID: "prod-4", Name: "NPK Fertilizer", SellerName: "GreenFarms",
			Category: domain.CategoryFertilizers, Price: 95, Stock: 150,
			Description: "Balanced NPK fertilizer for all crops",
			Images:      []string{"/assets/fertilizer.jpg"},
		},
		{
			ID: "prod-5", Name: "Pesticide Spray", SellerName: "AgroMart",
			Category: domain.CategoryPesticides, Price: 60, Stock: 80,
			Description: "Effective pesticide for crop protection",
			Images:      []string{"/assets/fertilizer.jpg"},
		},
	}
}

// Recommendations returns the coordinate-keyed recommendation table.
// Keys are the literal "lat,lng" strings submitted by the client.
func Recommendations() domain.RecommendationTable {
	return domain.RecommendationTable{
		// Delhi
		"28.6139,77.2090": {
			Crop: "Wheat", Confidence: 85,
			Reasoning:   "Optimal conditions: pH 6.8, Temperature 24°C, Humidity 65%",
			SoilData:    domain.SoilData{PH: 6.8, Clay: 25, Sand: 45, Silt: 30},
			WeatherData: domain.WeatherData{Temperature: 24, Humidity: 65, Rainfall: 650},
		},
		// Gujarat
		"23.0225,72.5714": {
			Crop: "Cotton", Confidence: 92,
			Reasoning:   "Perfect conditions: pH 7.2, Temperature 28°C, High humidity 78%",
			SoilData:    domain.SoilData{PH: 7.2, Clay: 35, Sand: 40, Silt: 25},
			WeatherData: domain.WeatherData{Temperature: 28, Humidity: 78, Rainfall: 800},
		},
		// Punjab
		"30.7333,76.7794": {
			Crop: "Maize", Confidence: 88,
			Reasoning:   "Excellent conditions: pH 6.5, Temperature 26°C, Humidity 70%",
			SoilData:    domain.SoilData{PH: 6.5, Clay: 30, Sand: 50, Silt: 20},
			WeatherData: domain.WeatherData{Temperature: 26, Humidity: 70, Rainfall: 720},
		},
	}
}

// DefaultRecommendation is returned for any coordinate pair not in the table
func DefaultRecommendation() domain.Recommendation {
	return domain.Recommendation{
		Crop: "Onion", Confidence: 79,
		Reasoning:   "Good conditions: pH 6.0, Temperature 23°C, Humidity 91%",
		SoilData:    domain.SoilData{PH: 6.0, Clay: 28, Sand: 42, Silt: 30},
		WeatherData: domain.WeatherData{Temperature: 23, Humidity: 91, Rainfall: 850},
	}
}
