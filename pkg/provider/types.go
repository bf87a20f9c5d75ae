package provider

// TokenResponse is the body returned by the authenticate endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// StockResponse is one page of the advertiser's stock listing.
type StockResponse struct {
	Results      []StockItem `json:"results"`
	TotalResults int         `json:"totalResults"`
}

// StockItem is one vehicle as the provider ships it: four nested groups, all
// optional. The transformer flattens this into the local schema.
type StockItem struct {
	Metadata *Metadata      `json:"metadata,omitempty"`
	Vehicle  *VehicleDetail `json:"vehicle,omitempty"`
	Adverts  *Adverts       `json:"adverts,omitempty"`
	Media    *Media         `json:"media,omitempty"`
}

// Metadata carries the provider's own identifiers and lifecycle info.
type Metadata struct {
	StockID         string `json:"stockId,omitempty"`
	ExternalStockID string `json:"externalStockId,omitempty"`
	LifecycleState  string `json:"lifecycleState,omitempty"`
	LastUpdated     string `json:"lastUpdated,omitempty"`
}

// VehicleDetail is the provider's physical-vehicle group.
type VehicleDetail struct {
	Registration         string `json:"registration,omitempty"`
	VIN                  string `json:"vin,omitempty"`
	Make                 string `json:"make,omitempty"`
	Model                string `json:"model,omitempty"`
	Derivative           string `json:"derivative,omitempty"`
	VehicleType          string `json:"vehicleType,omitempty"`
	BodyType             string `json:"bodyType,omitempty"`
	FuelType             string `json:"fuelType,omitempty"`
	TransmissionType     string `json:"transmissionType,omitempty"`
	Colour               string `json:"colour,omitempty"`
	YearOfManufacture    int    `json:"yearOfManufacture,omitempty"`
	OdometerReadingMiles int    `json:"odometerReadingMiles,omitempty"`
	Doors                int    `json:"doors,omitempty"`
	EngineCapacityCC     int    `json:"engineCapacityCC,omitempty"`
}

// Adverts groups the pricing and advert copy.
type Adverts struct {
	ForecourtPrice *Price         `json:"forecourtPrice,omitempty"`
	RetailAdverts  *RetailAdverts `json:"retailAdverts,omitempty"`
}

// Price is a GBP amount.
type Price struct {
	AmountGBP float64 `json:"amountGBP"`
}

// RetailAdverts carries the advert text shown on the provider's own site.
type RetailAdverts struct {
	SuppliedPrice    *Price `json:"suppliedPrice,omitempty"`
	TotalPrice       *Price `json:"totalPrice,omitempty"`
	AttentionGrabber string `json:"attentionGrabber,omitempty"`
	Description      string `json:"description,omitempty"`
}

// Media groups the imagery attached to the listing.
type Media struct {
	Images []Image `json:"images,omitempty"`
}

// Image is a single hosted image reference.
type Image struct {
	Href string `json:"href"`
}
