package model

import "time"

// DriveType distinguishes a single household pickup from a community drive.
type DriveType string

const (
	DriveTypeSinglePickup   DriveType = "single_pickup"
	DriveTypeCommunityDrive DriveType = "community_drive"
)

// Center is a recycling center shown on the map.
type Center struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Device is a known device model with its approximate recoverable metal value.
type Device struct {
	ID         string  `json:"id"`
	ModelName  string  `json:"model_name"`
	MetalValue float64 `json:"metal_value"` // approx grams of recoverable metal
}

// Pickup is a scheduled e-waste pickup or community drive request.
type Pickup struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	WasteType  string    `json:"waste_type"`
	DriveType  DriveType `json:"drive_type"`
	PickupDate string    `json:"pickup_date"`
	PickupTime string    `json:"pickup_time"`
	CreatedAt  time.Time `json:"created_at"`
}

// Challenge is a green challenge users can complete for CO2 savings.
type Challenge struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CO2Saved  float64   `json:"co2_saved"` // kg
	IsActive  bool      `json:"is_active"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

// GeoResult is a normalized place record from any geo provider.
// Only results with both coordinates present are ever constructed.
type GeoResult struct {
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Source      string   `json:"source"`
	Types       []string `json:"types,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	RatingCount int      `json:"rating_count,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Website     string   `json:"website,omitempty"`
}

// Bounds is a rectangular map viewport. Both corners are inclusive.
type Bounds struct {
	SWLat float64 `json:"sw_lat"`
	SWLng float64 `json:"sw_lng"`
	NELat float64 `json:"ne_lat"`
	NELng float64 `json:"ne_lng"`
}

// Contains reports whether the point lies within the box, boundary included.
func (b Bounds) Contains(lat, lng float64) bool {
	return b.SWLat <= lat && lat <= b.NELat && b.SWLng <= lng && lng <= b.NELng
}

// Decision is a parsed recommendation extracted from free-form AI text.
// Category is always a recognized member of the feature's category set.
type Decision struct {
	Category  string `json:"category"`
	Rationale string `json:"rationale"`
}

// MetalValuation holds recoverable metal quantities and unit prices for a
// device. Quantities default to zero and prices to fixed baselines when the
// upstream text could not be parsed; fields are never absent.
type MetalValuation struct {
	Grams  map[string]float64 `json:"grams"`  // metal name -> grams
	Prices map[string]float64 `json:"prices"` // metal name -> price per gram
}

// QuizOption is one labeled multiple-choice option.
type QuizOption struct {
	Label string `json:"label"` // A-D
	Text  string `json:"text"`
}

// QuizQuestion is a single multiple-choice question with exactly four
// options and an answer label in A-D.
type QuizQuestion struct {
	Prompt     string       `json:"q"`
	Options    []QuizOption `json:"options"`
	Answer     string       `json:"answer"`
	UserChoice string       `json:"user_choice,omitempty"`
}

// RepairShop is a nearby repair/donation suggestion for the reuse flow.
type RepairShop struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Rating  string `json:"rating"`
}

// Collector is an informal e-waste collector listed in the directory.
type Collector struct {
	Name     string `json:"name"`
	City     string `json:"city"`
	Phone    string `json:"phone"`
	Verified bool   `json:"verified"`
}
