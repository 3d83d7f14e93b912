package geo

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ecospark/ewaste-server/internal/model"
	"github.com/ecospark/ewaste-server/pkg/places"
)

const (
	repairSearchRadiusM = 10000
	maxShopSuggestions  = 5
	// Below this many text-search hits, the nearby search runs as a topup.
	minTextShopResults = 3
)

var deviceSearchQueries = []struct {
	terms []string
	query string
}{
	{[]string{"phone", "iphone", "samsung", "mobile", "smartphone", "android"}, "mobile phone repair shop"},
	{[]string{"laptop", "notebook", "macbook", "dell", "hp", "lenovo", "asus"}, "laptop computer repair shop"},
	{[]string{"tv", "television", "monitor", "display"}, "TV electronics repair shop"},
}

const genericRepairQuery = "electronics repair shop"

var repairNameKeywords = []string{"repair", "service", "fix", "mobile", "phone", "laptop", "computer", "electronics"}

var excludedStoreKeywords = []string{"supermarket", "grocery", "mall", "department store", "retail"}

// ShopLocator finds repair shops near a point for the reuse flow. It never
// returns an error: provider failures degrade to a static directory.
type ShopLocator struct {
	places places.Client
}

// NewShopLocator creates a ShopLocator. A nil client means unconfigured and
// always yields the static directory.
func NewShopLocator(c places.Client) *ShopLocator {
	return &ShopLocator{places: c}
}

// FindShops returns up to five repair-shop suggestions near the point,
// choosing search terms from the device model. Text search runs first; a
// nearby search tops up thin results.
func (l *ShopLocator) FindShops(ctx context.Context, deviceModel string, lat, lng float64) []model.RepairShop {
	if l.places == nil {
		return FallbackShops()
	}

	shops := l.textSearchShops(ctx, repairQueryFor(deviceModel), lat, lng)
	if len(shops) < minTextShopResults {
		shops = l.nearbySearchShops(ctx, lat, lng, shops)
	}
	if len(shops) == 0 {
		return FallbackShops()
	}
	return shops
}

// repairQueryFor picks a search query from device-type keywords in the model
// name.
func repairQueryFor(deviceModel string) string {
	lower := strings.ToLower(deviceModel)
	for _, d := range deviceSearchQueries {
		for _, term := range d.terms {
			if strings.Contains(lower, term) {
				return d.query
			}
		}
	}
	return genericRepairQuery
}

func (l *ShopLocator) textSearchShops(ctx context.Context, query string, lat, lng float64) []model.RepairShop {
	resp, err := l.places.TextSearch(ctx, places.TextSearchRequest{
		TextQuery:      fmt.Sprintf("%s near %v,%v", query, lat, lng),
		MaxResultCount: maxShopSuggestions,
		LocationBias: &places.LocationBias{
			Circle: &places.Circle{
				Center: places.LatLng{Latitude: lat, Longitude: lng},
				Radius: repairSearchRadiusM,
			},
		},
	})
	if err != nil {
		zap.L().Warn("repair shop text search failed", zap.Error(err))
		return nil
	}

	var shops []model.RepairShop
	for _, p := range resp.Places {
		if !repairRelated(p) {
			continue
		}
		shops = append(shops, shopFromPlace(p))
		if len(shops) >= maxShopSuggestions {
			break
		}
	}
	return shops
}

func (l *ShopLocator) nearbySearchShops(ctx context.Context, lat, lng float64, shops []model.RepairShop) []model.RepairShop {
	resp, err := l.places.NearbySearch(ctx, places.NearbySearchRequest{
		LocationRestriction: places.LocationRestriction{
			Circle: &places.Circle{
				Center: places.LatLng{Latitude: lat, Longitude: lng},
				Radius: repairSearchRadiusM,
			},
		},
		IncludedTypes:  []string{"electronics_store"},
		MaxResultCount: maxShopSuggestions,
	})
	if err != nil {
		zap.L().Warn("repair shop nearby search failed", zap.Error(err))
		return shops
	}

	for _, p := range resp.Places {
		lower := strings.ToLower(p.DisplayName.Text)
		if containsAny(lower, excludedStoreKeywords) {
			continue
		}
		if !containsAny(lower, repairNameKeywords) && len(p.Types) == 0 {
			continue
		}
		shops = append(shops, shopFromPlace(p))
		if len(shops) >= maxShopSuggestions {
			break
		}
	}
	return shops
}

// repairRelated accepts a place whose name clearly indicates repair work or
// whose types mark it as a store.
func repairRelated(p places.Place) bool {
	if containsAny(strings.ToLower(p.DisplayName.Text), repairNameKeywords) {
		return true
	}
	for _, t := range p.Types {
		if t == "electronics_store" || t == "store" {
			return true
		}
	}
	return false
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func shopFromPlace(p places.Place) model.RepairShop {
	shop := model.RepairShop{
		Name:    p.DisplayName.Text,
		Address: p.FormattedAddress,
		Phone:   p.NationalPhoneNumber,
		Rating:  "N/A",
	}
	if shop.Name == "" {
		shop.Name = "Unknown"
	}
	if shop.Address == "" {
		shop.Address = "Address not available"
	}
	if shop.Phone == "" {
		shop.Phone = "Phone not available"
	}
	if p.Rating > 0 {
		shop.Rating = fmt.Sprintf("%.1f", p.Rating)
	}
	return shop
}

// FallbackShops is the static directory shown when no live results exist.
func FallbackShops() []model.RepairShop {
	return []model.RepairShop{
		{Name: "QuickFix Mobiles", Address: "Near your location", Phone: "+91 90000 11111", Rating: "4.2"},
		{Name: "City Laptop Care", Address: "Electronics repair", Phone: "+91 98888 22222", Rating: "4.5"},
		{Name: "Green Repair Hub", Address: "Device servicing", Phone: "+91 97777 33333", Rating: "4.0"},
	}
}

// LocationPromptShops is the placeholder shown when the caller has not shared
// coordinates.
func LocationPromptShops() []model.RepairShop {
	return []model.RepairShop{
		{Name: "Enable location to find nearby shops", Address: "Share your location to search", Phone: "", Rating: ""},
	}
}
