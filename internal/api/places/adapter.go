package places

import (
	"strings"

	"github.com/Sayan-Mondal2022/travAi/internal/models"
)

// Wire shapes for the Places API (v1). The API nests most strings inside
// localized-text objects; the adapter flattens everything into PlaceRecord
// so no shape ambiguity leaks past this package.

type localizedText struct {
	Text string `json:"text"`
}

type wireLandmark struct {
	Name                       string         `json:"name"`
	DisplayName                *localizedText `json:"displayName"`
	StraightLineDistanceMeters float64        `json:"straightLineDistanceMeters"`
}

type wirePlace struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	DisplayName      *localizedText `json:"displayName"`
	Types            []string       `json:"types"`
	FormattedAddress string         `json:"formattedAddress"`
	Rating           *float64       `json:"rating"`
	UserRatingCount  int            `json:"userRatingCount"`
	PriceLevel       string         `json:"priceLevel"`
	EditorialSummary *localizedText `json:"editorialSummary"`
	ReviewSummary    *struct {
		Text *localizedText `json:"text"`
	} `json:"reviewSummary"`
	AddressDescriptor *struct {
		Landmarks []wireLandmark `json:"landmarks"`
	} `json:"addressDescriptor"`
	GoogleMapsURI   string `json:"googleMapsUri"`
	GoogleMapsLinks *struct {
		PlaceURI      string `json:"placeUri"`
		DirectionsURI string `json:"directionsUri"`
	} `json:"googleMapsLinks"`
	Location *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	Photos []struct {
		Name string `json:"name"`
	} `json:"photos"`
}

type searchResponse struct {
	Places []wirePlace `json:"places"`
}

// priceLevelOrdinal maps the API's price level enum onto the 0-4 ordinal
// scale the rest of the pipeline uses.
var priceLevelOrdinal = map[string]int{
	"PRICE_LEVEL_FREE":           0,
	"PRICE_LEVEL_INEXPENSIVE":    1,
	"PRICE_LEVEL_MODERATE":       2,
	"PRICE_LEVEL_EXPENSIVE":      3,
	"PRICE_LEVEL_VERY_EXPENSIVE": 4,
}

func adaptSearchResponse(resp *searchResponse) []models.PlaceRecord {
	if resp == nil {
		return nil
	}
	records := make([]models.PlaceRecord, 0, len(resp.Places))
	for _, p := range resp.Places {
		records = append(records, adaptPlace(p))
	}
	return records
}

func adaptPlace(p wirePlace) models.PlaceRecord {
	record := models.PlaceRecord{
		ID:               p.ID,
		Types:            p.Types,
		FormattedAddress: p.FormattedAddress,
		Rating:           p.Rating,
		UserRatingCount:  p.UserRatingCount,
		MapsURL:          p.GoogleMapsURI,
	}

	if p.DisplayName != nil && p.DisplayName.Text != "" {
		record.Name = p.DisplayName.Text
	} else {
		record.Name = p.Name
	}
	if record.ID == "" {
		// Some responses carry identity only in the resource name
		// ("places/<id>").
		record.ID = strings.TrimPrefix(p.Name, "places/")
	}

	if ordinal, ok := priceLevelOrdinal[p.PriceLevel]; ok {
		level := ordinal
		record.PriceLevel = &level
	}
	if p.EditorialSummary != nil {
		record.EditorialSummary = p.EditorialSummary.Text
	}
	if p.ReviewSummary != nil && p.ReviewSummary.Text != nil {
		record.ReviewSummary = p.ReviewSummary.Text.Text
	}
	if p.GoogleMapsLinks != nil {
		if p.GoogleMapsLinks.PlaceURI != "" {
			record.MapsURL = p.GoogleMapsLinks.PlaceURI
		}
		record.DirectionsURL = p.GoogleMapsLinks.DirectionsURI
	}
	if p.Location != nil {
		record.Location = &models.Coordinates{Lat: p.Location.Latitude, Lng: p.Location.Longitude}
	}
	if p.AddressDescriptor != nil {
		for _, lm := range p.AddressDescriptor.Landmarks {
			name := lm.Name
			if lm.DisplayName != nil && lm.DisplayName.Text != "" {
				name = lm.DisplayName.Text
			}
			record.Landmarks = append(record.Landmarks, models.Landmark{
				DisplayName:    name,
				DistanceMeters: int(lm.StraightLineDistanceMeters),
			})
		}
	}
	for i, photo := range p.Photos {
		if i == 3 {
			break
		}
		record.Photos = append(record.Photos, photo.Name)
	}
	return record
}
