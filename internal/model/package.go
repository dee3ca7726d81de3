package model

import "github.com/shopspring/decimal"

// Photography options shared by packages and booked services.
const (
    PhotoCandid      = "candid"
    PhotoTraditional = "traditional"
    PhotoBoth        = "both"

    Duration2Hours = "2hrs"
    Duration4Hours = "4hrs"
    DurationFull   = "full"

    DeliveryDrive    = "drive"
    DeliveryPendrive = "pendrive"
)

// Catering options.
const (
    MealBreakfast = "breakfast"
    MealLunch     = "lunch"
    MealDinner    = "dinner"
    MealSnacks    = "snacks"

    MenuStandard = "standard"
    MenuCustom   = "custom"

    FoodVeg    = "veg"
    FoodNonVeg = "nonveg"
    FoodBoth   = "both"
)

// PhotographyPackage is a flat-priced photography offering.
type PhotographyPackage struct {
    ID                 uint64          `json:"id"`                  // photography_packages.id
    Name               string          `json:"name"`                // photography_packages.name
    Description        string          `json:"description"`         // photography_packages.description
    PhotoCount         string          `json:"photo_count"`         // "50", "150", "unlimited"
    Price              decimal.Decimal `json:"price"`               // photography_packages.price
    PhotographersCount int             `json:"photographers_count"` // photography_packages.photographers_count
    IncludesEditing    bool            `json:"includes_editing"`    // photography_packages.includes_editing
    IncludesAlbum      bool            `json:"includes_album"`      // photography_packages.includes_album
    IsActive           bool            `json:"is_active"`           // photography_packages.is_active
}

// CateringPackage is a catering offering priced per plate.
type CateringPackage struct {
    ID             uint64          `json:"id"`              // catering_packages.id
    Name           string          `json:"name"`            // catering_packages.name
    Description    string          `json:"description"`     // catering_packages.description
    MealType       string          `json:"meal_type"`       // catering_packages.meal_type
    PricePerPlate  decimal.Decimal `json:"price_per_plate"` // catering_packages.price_per_plate
    SupportsVeg    bool            `json:"supports_veg"`    // catering_packages.supports_veg
    SupportsNonVeg bool            `json:"supports_nonveg"` // catering_packages.supports_nonveg
    MenuType       string          `json:"menu_type"`       // catering_packages.menu_type
    IsActive       bool            `json:"is_active"`       // catering_packages.is_active
}
