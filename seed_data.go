package main

import (
	"log"

	"gorm.io/gorm"

	"homehelp-server/models"
)

// SeedServices populates the service catalog on an empty database.
// Existing catalogs are left untouched.
func SeedServices(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Service{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seed := []models.Service{
		{
			Name:        "House Cleaning",
			Description: "General house cleaning: floors, surfaces, kitchen and bathrooms",
			Price:       15.00,
			PriceUnit:   "per hour",
			MinQuantity: 2,
			IsActive:    true,
		},
		{
			Name:        "Deep Cleaning",
			Description: "Full deep clean including windows, appliances and hard-to-reach areas",
			Price:       25.00,
			PriceUnit:   "per hour",
			MinQuantity: 3,
			IsActive:    true,
		},
		{
			Name:        "Cooking",
			Description: "Meal preparation for families, daily or per event",
			Price:       20.00,
			PriceUnit:   "per visit",
			MinQuantity: 1,
			IsActive:    true,
		},
		{
			Name:        "Babysitting",
			Description: "Childcare at your home, hourly",
			Price:       12.00,
			PriceUnit:   "per hour",
			MinQuantity: 3,
			IsActive:    true,
		},
		{
			Name:        "Elderly Care",
			Description: "Companionship and day-to-day assistance for elderly family members",
			Price:       18.00,
			PriceUnit:   "per hour",
			MinQuantity: 4,
			IsActive:    true,
		},
		{
			Name:        "Laundry & Ironing",
			Description: "Washing, drying, folding and ironing",
			Price:       30.00,
			PriceUnit:   "per visit",
			MinQuantity: 1,
			IsActive:    true,
		},
		{
			Name:        "Gardening",
			Description: "Lawn mowing, pruning and general garden upkeep",
			Price:       22.00,
			PriceUnit:   "per hour",
			MinQuantity: 2,
			IsActive:    true,
		},
	}

	if err := db.Create(&seed).Error; err != nil {
		return err
	}
	log.Printf("🌱 Seeded %d services", len(seed))
	return nil
}
