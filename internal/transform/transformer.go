package transform

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/db/models"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/provider"
)

// Fallbacks keep NOT NULL columns satisfied when the provider omits a field.
// The values match what the dealership's previous listings tool assumed.
const (
	fallbackFuelType     = "Petrol"
	fallbackColour       = "Black"
	fallbackTransmission = "Manual"
)

const earliestVehicleYear = 1900

// Vehicle maps one provider stock item into the local flat schema. Pure and
// deterministic; index feeds the synthetic identifier of last resort. The
// caller owns persistence concerns (ID, timestamps, override state).
func Vehicle(item provider.StockItem, advertiserID string, index int) models.Vehicle {
	providerID := ResolveProviderID(item, advertiserID, index)
	cover, gallery := selectImages(item.Media)

	raw, _ := json.Marshal(item)

	v := models.Vehicle{
		ProviderID:         &providerID,
		FuelType:           fallbackFuelType,
		Colour:             fallbackColour,
		Transmission:       fallbackTransmission,
		Category:           CategoryOther,
		CoverImageURL:      cover,
		GalleryImageURLs:   gallery,
		Description:        description(item.Adverts),
		Price:              price(item.Adverts),
		SyncedFromProvider: true,
		IsAvailable:        true,
		RawPayload:         raw,
	}

	if detail := item.Vehicle; detail != nil {
		v.Make = strings.TrimSpace(detail.Make)
		v.Model = strings.TrimSpace(detail.Model)
		v.Year = detail.YearOfManufacture
		v.Mileage = detail.OdometerReadingMiles
		v.Category = MapCategory(detail.BodyType)
		if derivative := strings.TrimSpace(detail.Derivative); derivative != "" {
			v.Derivative = &derivative
		}
		if fuel := strings.TrimSpace(detail.FuelType); fuel != "" {
			v.FuelType = fuel
		}
		if colour := strings.TrimSpace(detail.Colour); colour != "" {
			v.Colour = colour
		}
		if transmission := strings.TrimSpace(detail.TransmissionType); transmission != "" {
			v.Transmission = transmission
		}
	}

	return v
}

// ResolveProviderID picks the record identifier by priority: the provider's
// stock id, the dealer's external stock id, registration, VIN, then a
// synthetic advertiser-scoped fallback so no record is ever dropped for
// lacking an id.
func ResolveProviderID(item provider.StockItem, advertiserID string, index int) string {
	if m := item.Metadata; m != nil {
		if id := strings.TrimSpace(m.StockID); id != "" {
			return id
		}
		if id := strings.TrimSpace(m.ExternalStockID); id != "" {
			return id
		}
	}
	if d := item.Vehicle; d != nil {
		if reg := strings.TrimSpace(d.Registration); reg != "" {
			return reg
		}
		if vin := strings.TrimSpace(d.VIN); vin != "" {
			return vin
		}
	}
	return fmt.Sprintf("%s-%d", advertiserID, index)
}

// price resolves the advertised amount: forecourt price first, then the
// retail advert's total, then the dealer-supplied figure. GBP, whole pounds.
func price(adverts *provider.Adverts) int {
	if adverts == nil {
		return 0
	}
	if adverts.ForecourtPrice != nil && adverts.ForecourtPrice.AmountGBP > 0 {
		return int(math.Round(adverts.ForecourtPrice.AmountGBP))
	}
	if retail := adverts.RetailAdverts; retail != nil {
		if retail.TotalPrice != nil && retail.TotalPrice.AmountGBP > 0 {
			return int(math.Round(retail.TotalPrice.AmountGBP))
		}
		if retail.SuppliedPrice != nil && retail.SuppliedPrice.AmountGBP > 0 {
			return int(math.Round(retail.SuppliedPrice.AmountGBP))
		}
	}
	return 0
}

// description reflows the advert copy and prepends the attention grabber as an
// emphasized headline when present.
func description(adverts *provider.Adverts) string {
	if adverts == nil || adverts.RetailAdverts == nil {
		return ""
	}
	retail := adverts.RetailAdverts

	body := Reflow(retail.Description)
	grabber := strings.TrimSpace(retail.AttentionGrabber)
	if grabber == "" {
		return body
	}
	if body == "" {
		return "**" + grabber + "**"
	}
	return "**" + grabber + "**\n\n" + body
}

// Validation is the companion result for one mapped vehicle.
type Validation struct {
	Valid  bool
	Errors []string
}

// Validate checks the fields the store and website require. Failures are
// per-vehicle: the sync run records them and moves on.
func Validate(v models.Vehicle, now time.Time) Validation {
	var errs []string

	if strings.TrimSpace(v.Make) == "" {
		errs = append(errs, "make is required")
	}
	if strings.TrimSpace(v.Model) == "" {
		errs = append(errs, "model is required")
	}
	maxYear := now.Year() + 1
	if v.Year < earliestVehicleYear || v.Year > maxYear {
		errs = append(errs, fmt.Sprintf("year must be between %d and %d, got %d", earliestVehicleYear, maxYear, v.Year))
	}
	if v.Price <= 0 {
		errs = append(errs, "price must be positive")
	}
	if v.ProviderID == nil || strings.TrimSpace(*v.ProviderID) == "" {
		errs = append(errs, "provider id is required")
	}

	return Validation{Valid: len(errs) == 0, Errors: errs}
}
